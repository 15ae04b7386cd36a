package utils

import "testing"

func TestRupeesToPaiseRounds(t *testing.T) {
	cases := map[float64]int64{
		10:     1000,
		45:     4500,
		0.01:   1,
		99.995: 10000,
		100.10: 10010,
	}
	for rupees, want := range cases {
		if got := RupeesToPaise(rupees); got != want {
			t.Fatalf("RupeesToPaise(%v) = %d, want %d", rupees, got, want)
		}
	}
}

func TestFormatRs(t *testing.T) {
	if got := FormatRs(4550); got != "Rs. 45.50" {
		t.Fatalf("FormatRs(4550) = %q", got)
	}
	if got := FormatRs(0); got != "Rs. 0.00" {
		t.Fatalf("FormatRs(0) = %q", got)
	}
}
