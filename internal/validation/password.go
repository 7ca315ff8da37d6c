package validation

import (
	"strings"
	"unicode"
)

const minPasswordLength = 8

func password(value string, _ Context) Result {
	if len(value) < minPasswordLength {
		return fail("password must be at least 8 characters")
	}
	upper, lower, digit, symbol := passwordClasses(value)
	if !upper || !lower || !digit || !symbol {
		return fail("password must include upper and lower case letters, a digit and a symbol")
	}
	return ok()
}

// PasswordStrength scores 0-100 from length and character class
// diversity. The score is informational only and never gates validity.
func PasswordStrength(value string) int {
	if value == "" {
		return 0
	}

	length := len(value)
	if length > 16 {
		length = 16
	}
	score := length * 40 / 16

	upper, lower, digit, symbol := passwordClasses(value)
	classes := 0
	for _, present := range []bool{upper, lower, digit, symbol} {
		if present {
			classes++
		}
	}
	score += classes * 15

	if score > 100 {
		score = 100
	}
	return score
}

func passwordClasses(value string) (upper, lower, digit, symbol bool) {
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsSpace(r):
			symbol = true
		}
	}
	// Spaces count toward length but not toward any class.
	if strings.TrimSpace(value) == "" {
		return false, false, false, false
	}
	return upper, lower, digit, symbol
}
