package utils

import "strings"

// NormalizeStation lowercases and trims a station name; station lookups and
// stored ticket routes always use this form so "Rajiv Chowk " and
// "rajiv chowk" resolve to the same row.
func NormalizeStation(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
