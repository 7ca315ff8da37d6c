package enums

import "fmt"

// ChargeType labels an itemized additional charge on an order.
type ChargeType string

const (
	ChargeTypeGiftWrap    ChargeType = "gift_wrap"
	ChargeTypeCODHandling ChargeType = "cod_handling"
)

var validChargeTypes = []ChargeType{
	ChargeTypeGiftWrap,
	ChargeTypeCODHandling,
}

// String implements fmt.Stringer.
func (c ChargeType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ChargeType.
func (c ChargeType) IsValid() bool {
	for _, candidate := range validChargeTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseChargeType converts raw input into a ChargeType.
func ParseChargeType(value string) (ChargeType, error) {
	for _, candidate := range validChargeTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid charge type %q", value)
}
