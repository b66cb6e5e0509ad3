package engine

import (
	"fmt"
	"strings"

	"github.com/papercomputeco/khata/pkg/ledger"
)

// Fixed replies. Every other answer is assembled from the dataset.
const (
	invalidQueryAnswer = "Invalid query provided."
	errorAnswer        = "An error occurred while generating the answer. Please try again."
	noInfoAnswer       = "I couldn't find relevant information to answer your question. Please try rephrasing."
	unboundHistory     = "Please specify a customer name to view their purchase history."
)

func (e *Engine) composeTotalSpending(name string, bound bool) string {
	if !bound {
		return fmt.Sprintf("Total spending across all customers is ₹%d.", ledger.TotalSpending(e.data, ""))
	}

	rows := ledger.FilterByCustomer(e.data, name)
	total := ledger.TotalSpending(e.data, name)

	var b strings.Builder
	fmt.Fprintf(&b, "%s's total spending is ₹%d. They made %d transaction(s):\n", name, total, len(rows))
	for _, t := range rows {
		fmt.Fprintf(&b, "- %s for ₹%d on %s\n", t.Product, t.Amount, t.Date)
	}
	return strings.TrimSpace(b.String())
}

func (e *Engine) composePurchaseHistory(name string, bound bool) string {
	if !bound {
		return unboundHistory
	}

	rows := ledger.FilterByCustomer(e.data, name)
	if len(rows) == 0 {
		return fmt.Sprintf("No purchases found for %s.", name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s's purchase history:\n", name)
	for _, t := range rows {
		fmt.Fprintf(&b, "- On %s, purchased %s for ₹%d\n", t.Date, t.Product, t.Amount)
	}
	return strings.TrimSpace(b.String())
}

// composeMonth filters on the raw date string so the reply reflects the
// stored dates exactly as loaded.
func (e *Engine) composeMonth(m monthRule) string {
	var rows []ledger.Transaction
	for _, t := range e.data {
		if strings.Contains(t.Date, m.fragment) {
			rows = append(rows, t)
		}
	}

	if len(rows) == 0 {
		return fmt.Sprintf("No transactions found for %s 2024.", m.label)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s 2024 transactions:\n", m.label)
	for _, t := range rows {
		fmt.Fprintf(&b, "- %s purchased %s for ₹%d on %s\n", t.Customer, t.Product, t.Amount, t.Date)
	}
	return strings.TrimSpace(b.String())
}

func composeFallback(matches []Match) string {
	if len(matches) == 0 {
		return noInfoAnswer
	}

	var b strings.Builder
	b.WriteString("Based on the transaction data:\n\n")
	for _, m := range matches {
		fmt.Fprintf(&b, "- %s\n", m.Description)
	}
	return strings.TrimSpace(b.String())
}
