package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/payment"
	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/pricing"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/enums"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/types"
)

// ContactDetails is the committed contact step.
type ContactDetails struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// ShippingDetails is the committed shipping step.
type ShippingDetails struct {
	Address              types.Address `json:"address"`
	MethodID             string        `json:"method_id"`
	DeliveryInstructions string        `json:"delivery_instructions,omitempty"`
	GiftWrap             bool          `json:"gift_wrap"`
}

// BillingDetails is the committed billing step. When SameAsShipping is
// set the Address stays nil and resolves against shipping at assembly.
type BillingDetails struct {
	SameAsShipping bool           `json:"same_as_shipping"`
	Address        *types.Address `json:"address,omitempty"`
	GSTIN          string         `json:"gstin,omitempty"`
}

// PaymentDetails is the committed payment step. Card input is reduced
// to its displayable remainder before it ever reaches this struct; the
// full number and CVV are never persisted.
type PaymentDetails struct {
	Method         enums.PaymentMethodKind `json:"method"`
	CardHolder     string                  `json:"card_holder,omitempty"`
	CardLast4      string                  `json:"card_last4,omitempty"`
	CardBrand      enums.CardBrand         `json:"card_brand,omitempty"`
	CardExpiry     string                  `json:"card_expiry,omitempty"`
	UPIVPA         string                  `json:"upi_vpa,omitempty"`
	BankCode       string                  `json:"bank_code,omitempty"`
	WalletProvider string                  `json:"wallet_provider,omitempty"`
	EMITenure      int                     `json:"emi_tenure,omitempty"`
	State          *payment.State          `json:"state,omitempty"`
}

// Session is the full guest checkout state for one shopper.
type Session struct {
	ID             uuid.UUID               `json:"id"`
	CurrentStep    enums.CheckoutStep      `json:"current_step"`
	CompletedSteps []enums.CheckoutStep    `json:"completed_steps"`
	Items          []pricing.LineItem      `json:"items"`
	Coupons        []pricing.Coupon        `json:"coupons,omitempty"`
	Contact        *ContactDetails         `json:"contact,omitempty"`
	Shipping       *ShippingDetails        `json:"shipping,omitempty"`
	Billing        *BillingDetails         `json:"billing,omitempty"`
	Payment        *PaymentDetails         `json:"payment,omitempty"`
	OrderID        string                  `json:"order_id,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// New starts a fresh session at the contact step.
func New(items []pricing.LineItem, now time.Time) *Session {
	return &Session{
		ID:          uuid.New(),
		CurrentStep: enums.StepContact,
		Items:       items,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// StepCompleted reports whether the step committed at least once.
func (s *Session) StepCompleted(step enums.CheckoutStep) bool {
	for _, done := range s.CompletedSteps {
		if done == step {
			return true
		}
	}
	return false
}

// MarkCompleted records the step with set semantics: re-submitting an
// already completed step leaves the list unchanged.
func (s *Session) MarkCompleted(step enums.CheckoutStep) {
	if s.StepCompleted(step) {
		return
	}
	s.CompletedSteps = append(s.CompletedSteps, step)
}

// StepAccessible applies the navigation rule: the current step, any
// completed earlier step, and the immediate next step once the current
// one is complete.
func (s *Session) StepAccessible(target enums.CheckoutStep) bool {
	cur := s.CurrentStep.Index()
	tgt := target.Index()
	if tgt < 0 {
		return false
	}
	switch {
	case tgt == cur:
		return true
	case tgt < cur:
		return s.StepCompleted(target)
	case tgt == cur+1:
		return s.StepCompleted(s.CurrentStep)
	}
	return false
}
