package enums

import "fmt"

// PaymentStatus tracks the normalized gateway outcome for a session.
type PaymentStatus string

const (
	PaymentStatusIdle    PaymentStatus = "idle"
	PaymentStatusWaiting PaymentStatus = "waiting"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusFailure PaymentStatus = "failure"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusIdle,
	PaymentStatusWaiting,
	PaymentStatusSuccess,
	PaymentStatusPending,
	PaymentStatusFailure,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further confirmation is expected.
func (p PaymentStatus) IsTerminal() bool {
	switch p {
	case PaymentStatusSuccess, PaymentStatusPending, PaymentStatusFailure:
		return true
	}
	return false
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
