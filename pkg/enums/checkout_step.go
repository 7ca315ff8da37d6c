package enums

import "fmt"

// CheckoutStep identifies one stage of the guest checkout sequence.
type CheckoutStep string

const (
	StepContact  CheckoutStep = "contact"
	StepShipping CheckoutStep = "shipping"
	StepBilling  CheckoutStep = "billing"
	StepPayment  CheckoutStep = "payment"
	StepReview   CheckoutStep = "review"
)

// StepOrder is the linear sequence every session walks through.
var StepOrder = []CheckoutStep{
	StepContact,
	StepShipping,
	StepBilling,
	StepPayment,
	StepReview,
}

// String implements fmt.Stringer.
func (c CheckoutStep) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutStep.
func (c CheckoutStep) IsValid() bool {
	for _, candidate := range StepOrder {
		if candidate == c {
			return true
		}
	}
	return false
}

// Index returns the step's position in the sequence, or -1 when unknown.
func (c CheckoutStep) Index() int {
	for i, candidate := range StepOrder {
		if candidate == c {
			return i
		}
	}
	return -1
}

// Next returns the following step and false once the sequence is exhausted.
func (c CheckoutStep) Next() (CheckoutStep, bool) {
	idx := c.Index()
	if idx < 0 || idx+1 >= len(StepOrder) {
		return "", false
	}
	return StepOrder[idx+1], true
}

// ParseCheckoutStep converts raw input into a CheckoutStep.
func ParseCheckoutStep(value string) (CheckoutStep, error) {
	for _, candidate := range StepOrder {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout step %q", value)
}
