package ledgerutils

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/papercomputeco/khata/pkg/ledger"
	"github.com/papercomputeco/khata/pkg/ledger/bigquery"
	"github.com/papercomputeco/khata/pkg/ledger/jsonfile"
	"github.com/papercomputeco/khata/pkg/ledger/sqlite"
)

const bigqueryScheme = "bq://"

type NewSourceOpts struct {
	// SourceType selects the driver: "jsonfile", "sqlite", or "bigquery".
	// Empty defaults to jsonfile.
	SourceType string

	// Path is the data file for the jsonfile and sqlite drivers. A
	// "bq://project.dataset.table" URI selects BigQuery regardless of
	// SourceType.
	Path string

	// Project, Dataset, and Table address the BigQuery table when Path
	// does not carry a bq:// URI.
	Project string
	Dataset string
	Table   string

	Logger *zap.Logger
}

func NewSource(ctx context.Context, o *NewSourceOpts) (ledger.Source, error) {
	if strings.HasPrefix(o.Path, bigqueryScheme) {
		ref := strings.TrimPrefix(o.Path, bigqueryScheme)
		parts := strings.Split(ref, ".")
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: %q is not of the form bq://project.dataset.table", ledger.ErrLoad, o.Path)
		}
		return bigquery.New(ctx, parts[0], parts[1], parts[2], o.Logger)
	}

	switch o.SourceType {
	case "", "jsonfile":
		return jsonfile.New(o.Path, o.Logger), nil
	case "sqlite":
		return sqlite.New(o.Path, o.Logger)
	case "bigquery":
		return bigquery.New(ctx, o.Project, o.Dataset, o.Table, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported ledger source: %s", o.SourceType)
	}
}
