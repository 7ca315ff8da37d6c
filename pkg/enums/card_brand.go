package enums

// CardBrand identifies the card network inferred from the card number.
type CardBrand string

const (
	CardBrandVisa       CardBrand = "visa"
	CardBrandMastercard CardBrand = "mastercard"
	CardBrandAmex       CardBrand = "amex"
	CardBrandRupay      CardBrand = "rupay"
	CardBrandUnknown    CardBrand = "unknown"
)

// String implements fmt.Stringer.
func (c CardBrand) String() string {
	return string(c)
}

// CVVLength returns the expected security code length for the brand.
func (c CardBrand) CVVLength() int {
	if c == CardBrandAmex {
		return 4
	}
	return 3
}
