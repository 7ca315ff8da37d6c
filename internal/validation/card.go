package validation

import (
	"strconv"
	"strings"

	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/enums"
)

const maxExpiryYearsAhead = 20

func cardNumber(value string, _ Context) Result {
	digits := strings.ReplaceAll(strings.TrimSpace(value), " ", "")
	if digits == "" {
		return fail("card number is required")
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return fail("card number may contain only digits")
		}
	}
	if len(digits) < 13 || len(digits) > 19 {
		return fail("card number must be 13-19 digits")
	}
	if !Luhn(digits) {
		return fail("card number failed checksum")
	}
	return ok()
}

// Luhn reports whether the digit string passes the Luhn checksum:
// every second digit from the right is doubled, 9 subtracted when the
// double exceeds 9, and the sum must divide by 10.
func Luhn(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// CardBrandOf infers the network from the leading digits.
func CardBrandOf(number string) enums.CardBrand {
	digits := strings.ReplaceAll(strings.TrimSpace(number), " ", "")
	switch {
	case strings.HasPrefix(digits, "4"):
		return enums.CardBrandVisa
	case hasPrefixInRange(digits, 51, 55) || hasPrefixInRange(digits, 2221, 2720):
		return enums.CardBrandMastercard
	case strings.HasPrefix(digits, "34") || strings.HasPrefix(digits, "37"):
		return enums.CardBrandAmex
	case strings.HasPrefix(digits, "60") || strings.HasPrefix(digits, "65") ||
		strings.HasPrefix(digits, "81") || strings.HasPrefix(digits, "82"):
		return enums.CardBrandRupay
	}
	return enums.CardBrandUnknown
}

func hasPrefixInRange(digits string, lo, hi int) bool {
	width := len(strconv.Itoa(lo))
	if len(digits) < width {
		return false
	}
	prefix, err := strconv.Atoi(digits[:width])
	if err != nil {
		return false
	}
	return prefix >= lo && prefix <= hi
}

func expiryMonth(value string, _ Context) Result {
	month, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || month < 1 || month > 12 {
		return fail("expiry month must be between 1 and 12")
	}
	return ok()
}

// expiryYear also performs the combined month+year check using
// ctx.ExpiryMonth, so a card expiring this month is still accepted.
func expiryYear(value string, ctx Context) Result {
	year, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fail("expiry year is required")
	}
	currentYear := ctx.Now.Year()
	if year < currentYear || year > currentYear+maxExpiryYearsAhead {
		return fail("expiry year is out of range")
	}
	if ctx.ExpiryMonth >= 1 && ctx.ExpiryMonth <= 12 {
		if year == currentYear && ctx.ExpiryMonth < int(ctx.Now.Month()) {
			return fail("card has expired")
		}
	}
	return ok()
}

func securityCode(value string, ctx Context) Result {
	value = strings.TrimSpace(value)
	want := 3
	if ctx.CardBrand == enums.CardBrandAmex {
		want = 4
	}
	if len(value) != want {
		if want == 4 {
			return fail("CVV must be 4 digits for this card")
		}
		return fail("CVV must be 3 digits")
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return fail("CVV may contain only digits")
		}
	}
	return ok()
}
