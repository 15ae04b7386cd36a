package utils

import (
	"fmt"
	"math"
)

// Wallet, card and fare amounts are carried as int64 paise so that refund
// splits (80%/50% of a fare) stay exact. Fares are always multiples of
// Rs 5, so both rates divide cleanly.

// RupeesToPaise converts a rupee amount to paise, rounding to the nearest paisa.
func RupeesToPaise(r float64) int64 {
	return int64(math.Round(r * 100))
}

// PaiseToRupees converts paise back to a rupee amount for JSON payloads.
func PaiseToRupees(p int64) float64 {
	return float64(p) / 100
}

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(paise int64) string {
	return fmt.Sprintf("%.2f", PaiseToRupees(paise))
}

// FormatRs renders an amount the way user-facing messages expect it.
func FormatRs(paise int64) string {
	return "Rs. " + FormatMoney(paise)
}
