// Package sqlite reads the transaction dataset from a SQLite database
// with a transactions(date, customer, product, amount) table.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/papercomputeco/khata/pkg/ledger"
)

// Source is a ledger.Source over a SQLite database file.
type Source struct {
	db     *sql.DB
	logger *zap.Logger
}

// New opens the database. The path can be a file path or ":memory:".
func New(path string, logger *zap.Logger) (*Source, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ledger.ErrLoad, path, err)
	}

	return &Source{
		db:     db,
		logger: logger,
	}, nil
}

// Load reads every row in rowid order, which is insertion order and
// therefore the corpus order. Rows that fail validation are dropped with
// a warning.
func (s *Source) Load(ctx context.Context) ([]ledger.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, customer, product, amount FROM transactions ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: querying transactions: %v", ledger.ErrLoad, err)
	}
	defer rows.Close()

	var out []ledger.Transaction
	index := 0
	for rows.Next() {
		var (
			date     sql.NullString
			customer sql.NullString
			product  sql.NullString
			amount   sql.NullInt64
		)
		if err := rows.Scan(&date, &customer, &product, &amount); err != nil {
			return nil, fmt.Errorf("%w: scanning row: %v", ledger.ErrLoad, err)
		}

		var rec ledger.Record
		if date.Valid {
			rec.Date = &date.String
		}
		if customer.Valid {
			rec.Customer = &customer.String
		}
		if product.Valid {
			rec.Product = &product.String
		}
		if amount.Valid {
			v := int(amount.Int64)
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating rows: %v", ledger.ErrLoad, err)
	}

	return out, nil
}

// Close closes the underlying database handle.
func (s *Source) Close() error {
	return s.db.Close()
}
