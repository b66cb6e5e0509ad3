// Package ledger owns the loaded transaction records and the read-only
// query primitives over them.
package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the calendar form every transaction date must parse as.
const DateLayout = "2006-01-02"

// Transaction is one purchase row. The slice a Source produces is
// immutable for the life of the process; a transaction's only identity is
// its position in that slice.
type Transaction struct {
	Date     string `json:"date"`
	Customer string `json:"customer"`
	Product  string `json:"product"`
	Amount   int    `json:"amount"`
}

// Record is one raw entry as a Source reads it, before validation.
// Pointer fields distinguish a missing value from a zero one.
type Record struct {
	Date     *string `json:"date"`
	Customer *string `json:"customer"`
	Product  *string `json:"product"`
	Amount   *int    `json:"amount"`
}

// Transaction validates the record and converts it. Every defect wraps
// ErrFormat so sources can drop the record and keep loading.
func (r Record) Transaction() (Transaction, error) {
	if r.Date == nil || r.Customer == nil || r.Product == nil || r.Amount == nil {
		return Transaction{}, fmt.Errorf("%w: missing required field", ErrFormat)
	}
	if _, err := time.Parse(DateLayout, *r.Date); err != nil {
		return Transaction{}, fmt.Errorf("%w: date %q is not a calendar date", ErrFormat, *r.Date)
	}
	if *r.Customer == "" {
		return Transaction{}, fmt.Errorf("%w: empty customer", ErrFormat)
	}
	if *r.Product == "" {
		return Transaction{}, fmt.Errorf("%w: empty product", ErrFormat)
	}
	if *r.Amount < 0 {
		return Transaction{}, fmt.Errorf("%w: negative amount %d", ErrFormat, *r.Amount)
	}

	return Transaction{
		Date:     *r.Date,
		Customer: *r.Customer,
		Product:  *r.Product,
		Amount:   *r.Amount,
	}, nil
}

// FilterByCustomer returns the transactions whose customer equals name,
// case-insensitively. No match is an empty result, not an error.
func FilterByCustomer(data []Transaction, name string) []Transaction {
	var out []Transaction
	for _, t := range data {
		if strings.EqualFold(t.Customer, name) {
			out = append(out, t)
		}
	}
	return out
}

// FilterByMonth returns the transactions falling in the given calendar
// year and month.
func FilterByMonth(data []Transaction, year int, month time.Month) []Transaction {
	var out []Transaction
	for _, t := range data {
		d, err := time.Parse(DateLayout, t.Date)
		if err != nil {
			continue
		}
		if d.Year() == year && d.Month() == month {
			out = append(out, t)
		}
	}
	return out
}

// TotalSpending sums amounts over all transactions, or over the subset
// matching customer (case-insensitive) when customer is non-empty. An
// empty subset sums to 0.
func TotalSpending(data []Transaction, customer string) int {
	total := 0
	for _, t := range data {
		if customer != "" && !strings.EqualFold(t.Customer, customer) {
			continue
		}
		total += t.Amount
	}
	return total
}

// DistinctCustomers returns every unique customer name, lexicographically
// sorted.
func DistinctCustomers(data []Transaction) []string {
	seen := make(map[string]struct{}, len(data))
	var out []string
	for _, t := range data {
		if _, ok := seen[t.Customer]; ok {
			continue
		}
		seen[t.Customer] = struct{}{}
		out = append(out, t.Customer)
	}
	sort.Strings(out)
	return out
}

// MonthTotal is the spend aggregated over one calendar month.
type MonthTotal struct {
	Month string `json:"month"`
	Total int    `json:"total"`
}

// MonthlyTotals groups transactions by their "YYYY-MM" prefix and sums
// each group, ascending by month.
func MonthlyTotals(data []Transaction) []MonthTotal {
	totals := make(map[string]int)
	for _, t := range data {
		if len(t.Date) < 7 {
			continue
		}
		totals[t.Date[:7]] += t.Amount
	}

	out := make([]MonthTotal, 0, len(totals))
	for month, total := range totals {
		out = append(out, MonthTotal{Month: month, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
