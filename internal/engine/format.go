package engine

import "fmt"

// FormatMinutes renders minutes as H:MM, with a leading minus when negative.
func FormatMinutes(m int) string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s%d:%02d", sign, m/60, m%60)
}

// FormatBalance is FormatMinutes with an explicit plus sign for positive values.
func FormatBalance(m int) string {
	if m > 0 {
		return "+" + FormatMinutes(m)
	}
	return FormatMinutes(m)
}

// Hours converts minutes to fractional hours.
func Hours(m int) float64 {
	return float64(m) / 60
}
