package domain

import "strings"

// NormalizePostCode trims surrounding whitespace from a postal code.
func NormalizePostCode(s string) string {
	return strings.TrimSpace(s)
}

// Bangladesh post office codes are exactly four ASCII digits.
func ValidPostCode(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
