package vectorutils

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/papercomputeco/khata/pkg/vector"
	"github.com/papercomputeco/khata/pkg/vector/chroma"
	"github.com/papercomputeco/khata/pkg/vector/exhaustive"
	"github.com/papercomputeco/khata/pkg/vector/sqlitevec"
)

type NewDriverOpts struct {
	// DriverType selects the backend: "exhaustive", "sqlitevec", or "chroma".
	// Empty defaults to the in-memory exhaustive driver.
	DriverType string

	// Path is the database file path for the sqlitevec driver.
	Path string

	// TargetURL is the server URL for the chroma driver.
	TargetURL string

	// Collection is the chroma collection name. Empty uses the driver default.
	Collection string

	// Dimensions is the embedding width, required by the sqlitevec driver.
	Dimensions uint

	Logger *zap.Logger
}

func NewDriver(o *NewDriverOpts) (vector.Driver, error) {
	switch o.DriverType {
	case "", "exhaustive":
		return exhaustive.New(o.Logger), nil
	case "sqlitevec":
		return sqlitevec.New(sqlitevec.Config{
			DBPath:     o.Path,
			Dimensions: o.Dimensions,
		}, o.Logger)
	case "chroma":
		return chroma.New(chroma.Config{
			URL:            o.TargetURL,
			CollectionName: o.Collection,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store driver: %s", o.DriverType)
	}
}
