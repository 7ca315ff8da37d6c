package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/enums"
)

// Money holds an amount in integer minor units (paise for INR). The
// formatted string is always derived from Amount and never parsed back.
type Money struct {
	Amount   int64          `json:"amount"`
	Currency enums.Currency `json:"currency"`
}

// New builds a Money value in minor units.
func New(amount int64, currency enums.Currency) Money {
	return Money{Amount: amount, Currency: currency}
}

// INR builds an INR amount in paise.
func INR(paise int64) Money {
	return Money{Amount: paise, Currency: enums.CurrencyINR}
}

// Add returns the sum of two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// Mul returns the amount multiplied by a whole quantity.
func (m Money) Mul(qty int64) Money {
	return Money{Amount: m.Amount * qty, Currency: m.Currency}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// Percent returns the given basis-point share of the amount, truncated
// toward zero so no paisa is ever invented.
func (m Money) Percent(basisPoints int64) Money {
	share := decimal.NewFromInt(m.Amount).
		Mul(decimal.NewFromInt(basisPoints)).
		Div(decimal.NewFromInt(10000)).
		Truncate(0)
	return Money{Amount: share.IntPart(), Currency: m.Currency}
}

// Display derives the human-readable string, e.g. "₹1,234.50".
// Indian digit grouping is applied for INR.
func (m Money) Display() string {
	major := decimal.NewFromInt(m.Amount).Div(decimal.NewFromInt(100))
	fixed := major.Abs().StringFixed(2)

	whole, frac, _ := strings.Cut(fixed, ".")
	grouped := whole
	if m.Currency == enums.CurrencyINR {
		grouped = groupIndian(whole)
	}

	sign := ""
	if m.Amount < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%s%s.%s", sign, m.Currency.Symbol(), grouped, frac)
}

// groupIndian inserts separators in the 1,23,45,678 style.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	parts = append(parts, tail)
	return strings.Join(parts, ",")
}
