package utils

import "strconv"

// Truncate is a simple string truncate
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// FormatCurrency renders a whole-rupee amount with thousands separators,
// e.g. 55000 -> "₹55,000".
func FormatCurrency(amount int) string {
	digits := strconv.Itoa(amount)
	sign := ""
	if amount < 0 {
		sign = "-"
		digits = digits[1:]
	}

	n := len(digits)
	if n <= 3 {
		return sign + "₹" + digits
	}

	grouped := make([]byte, 0, n+n/3)
	lead := n % 3
	if lead > 0 {
		grouped = append(grouped, digits[:lead]...)
	}
	for i := lead; i < n; i += 3 {
		if len(grouped) > 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, digits[i:i+3]...)
	}
	return sign + "₹" + string(grouped)
}
