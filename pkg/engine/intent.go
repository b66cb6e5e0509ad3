package engine

import (
	"strings"

	"go.uber.org/zap"

	"github.com/papercomputeco/khata/pkg/ledger"
)

// Intent labels, reported on query events.
const (
	intentInvalid  = "invalid"
	intentTotal    = "total_spending"
	intentHistory  = "purchase_history"
	intentMonth    = "month_filter"
	intentFallback = "fallback"
	intentError    = "error"
)

// monthRule matches a month mention in the query to its date fragment.
type monthRule struct {
	label    string
	fragment string
	keys     []string
}

// monthRules are evaluated in order. The fragments pin the dataset year.
var monthRules = []monthRule{
	{label: "February", fragment: "2024-02", keys: []string{"february", "feb"}},
	{label: "January", fragment: "2024-01", keys: []string{"january", "jan"}},
	{label: "March", fragment: "2024-03", keys: []string{"march", "mar"}},
}

// bindCustomer returns the first customer, in record order, whose
// lower-cased name appears in the lower-cased query. With overlapping
// names the earlier record wins.
func bindCustomer(data []ledger.Transaction, loweredQuery string) (string, bool) {
	for _, t := range data {
		if strings.Contains(loweredQuery, strings.ToLower(t.Customer)) {
			return t.Customer, true
		}
	}
	return "", false
}

func containsAny(s string, keys ...string) bool {
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// answer classifies the query against the ordered rule list and composes
// the reply. Rule order is load-bearing: spending before history before
// months, months February first. The catch-all keeps Answer total.
func (e *Engine) answer(query string, matches []Match) (answer, intent string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("answer generation failed", zap.Any("cause", r))
			answer, intent = errorAnswer, intentError
		}
	}()

	if query == "" {
		return invalidQueryAnswer, intentInvalid
	}

	lowered := strings.ToLower(query)
	name, bound := bindCustomer(e.data, lowered)

	switch {
	case containsAny(lowered, "total spending", "total spent", "total amount"):
		return e.composeTotalSpending(name, bound), intentTotal
	case containsAny(lowered, "purchase history", "purchases", "bought"):
		return e.composePurchaseHistory(name, bound), intentHistory
	}

	for _, m := range monthRules {
		if containsAny(lowered, m.keys...) {
			return e.composeMonth(m), intentMonth
		}
	}

	return composeFallback(matches), intentFallback
}
