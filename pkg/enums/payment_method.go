package enums

import "fmt"

// PaymentMethodKind identifies one of the supported payment instruments.
type PaymentMethodKind string

const (
	PaymentMethodCard       PaymentMethodKind = "card"
	PaymentMethodUPI        PaymentMethodKind = "upi"
	PaymentMethodNetbanking PaymentMethodKind = "netbanking"
	PaymentMethodWallet     PaymentMethodKind = "wallet"
	PaymentMethodEMI        PaymentMethodKind = "emi"
	PaymentMethodCOD        PaymentMethodKind = "cod"
)

var validPaymentMethodKinds = []PaymentMethodKind{
	PaymentMethodCard,
	PaymentMethodUPI,
	PaymentMethodNetbanking,
	PaymentMethodWallet,
	PaymentMethodEMI,
	PaymentMethodCOD,
}

// String implements fmt.Stringer.
func (p PaymentMethodKind) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethodKind.
func (p PaymentMethodKind) IsValid() bool {
	for _, candidate := range validPaymentMethodKinds {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsAsync reports whether confirmation arrives from an external flow
// after the initial submit.
func (p PaymentMethodKind) IsAsync() bool {
	switch p {
	case PaymentMethodUPI, PaymentMethodNetbanking, PaymentMethodWallet:
		return true
	}
	return false
}

// ParsePaymentMethodKind converts raw input into a PaymentMethodKind.
func ParsePaymentMethodKind(value string) (PaymentMethodKind, error) {
	for _, candidate := range validPaymentMethodKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
