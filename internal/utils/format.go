package utils

import "fmt"

// FormatCount renders large counts the way the stat cards show them:
// 1500000 becomes "1M", 12300 becomes "12K", 950 stays "950".
// Values are truncated, not rounded.
func FormatCount(n float64) string {
	switch {
	case n >= 1000000:
		return fmt.Sprintf("%dM", int(n/1000000))
	case n >= 1000:
		return fmt.Sprintf("%dK", int(n/1000))
	default:
		return fmt.Sprintf("%d", int(n))
	}
}

// FormatDecimal behaves like FormatCount but keeps two decimal places for
// values below one thousand.
func FormatDecimal(n float64) string {
	if n >= 1000 {
		return FormatCount(n)
	}
	return fmt.Sprintf("%.2f", n)
}
