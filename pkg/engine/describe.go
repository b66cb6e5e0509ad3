package engine

import (
	"fmt"

	"github.com/papercomputeco/khata/pkg/ledger"
)

// Describe renders a transaction as the sentence indexed for retrieval.
// The wording is fixed; the index and the answers both depend on it.
func Describe(t ledger.Transaction) string {
	return fmt.Sprintf("On %s, %s purchased a %s for %d.", t.Date, t.Customer, t.Product, t.Amount)
}

// DescribeAll projects the dataset in order; description i describes
// transaction i.
func DescribeAll(data []ledger.Transaction) []string {
	out := make([]string, len(data))
	for i, t := range data {
		out[i] = Describe(t)
	}
	return out
}
