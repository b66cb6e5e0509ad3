// Package bigquery reads the transaction dataset from a BigQuery table.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/papercomputeco/khata/pkg/ledger"
)

// Source is a ledger.Source over a BigQuery table with date, customer,
// product and amount columns.
type Source struct {
	client  *bigquery.Client
	project string
	dataset string
	table   string
	logger  *zap.Logger
}

// New creates a BigQuery source using application default credentials.
func New(ctx context.Context, project, dataset, table string, logger *zap.Logger) (*Source, error) {
	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("%w: creating bigquery client: %v", ledger.ErrLoad, err)
	}

	return &Source{
		client:  client,
		project: project,
		dataset: dataset,
		table:   table,
		logger:  logger,
	}, nil
}

type row struct {
	Date     bigquery.NullString `bigquery:"date"`
	Customer bigquery.NullString `bigquery:"customer"`
	Product  bigquery.NullString `bigquery:"product"`
	Amount   bigquery.NullInt64  `bigquery:"amount"`
}

// Load runs a full scan ordered by date then customer. BigQuery has no
// insertion order, so that ordering defines the corpus order for this
// source. Rows that fail validation are dropped with a warning.
func (s *Source) Load(ctx context.Context) ([]ledger.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT
			CAST(date AS STRING) AS date,
			customer,
			product,
			amount
		FROM `+"`%s.%s.%s`"+`
		ORDER BY date, customer
	`, s.project, s.dataset, s.table)

	it, err := s.client.Query(query).Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: reading query: %v", ledger.ErrLoad, err)
	}

	var out []ledger.Transaction
	index := 0
	for {
		var r row
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: iterating rows: %v", ledger.ErrLoad, err)
		}

		var rec ledger.Record
		if r.Date.Valid {
			rec.Date = &r.Date.StringVal
		}
		if r.Customer.Valid {
			rec.Customer = &r.Customer.StringVal
		}
		if r.Product.Valid {
			rec.Product = &r.Product.StringVal
		}
		if r.Amount.Valid {
			v := int(r.Amount.Int64)
			rec.Amount = &v
		}

		t, err := rec.Transaction()
		if err != nil {
			s.logger.Warn("dropping malformed record",
				zap.Int("index", index),
				zap.Error(err),
			)
			index++
			continue
		}

		out = append(out, t)
		index++
	}

	return out, nil
}

// Close closes the BigQuery client.
func (s *Source) Close() error {
	return s.client.Close()
}
