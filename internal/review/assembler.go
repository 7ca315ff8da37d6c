package review

import (
	"time"

	"github.com/google/uuid"

	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/pricing"
	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/session"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/enums"
	pkgerrors "github.com/chanderbhanswami/vardhman-mills-sub005/pkg/errors"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/types"
)

// OrderPayload is the assembled order as presented for final review and
// handed to order submission. It is built fresh on every call and holds
// no references back into the session.
type OrderPayload struct {
	SessionID uuid.UUID              `json:"session_id"`
	Contact   session.ContactDetails `json:"contact"`
	Shipping  ShippingSummary        `json:"shipping"`
	Billing   BillingSummary         `json:"billing"`
	Payment   PaymentSummary         `json:"payment"`
	Items     []pricing.LineItem     `json:"items"`
	Quote     pricing.Quote          `json:"quote"`
	CreatedAt time.Time              `json:"created_at"`
}

// ShippingSummary is the delivery block of the payload.
type ShippingSummary struct {
	Address              types.Address `json:"address"`
	MethodID             string        `json:"method_id"`
	DeliveryInstructions string        `json:"delivery_instructions,omitempty"`
	GiftWrap             bool          `json:"gift_wrap"`
}

// BillingSummary always carries a concrete address: same-as-shipping is
// resolved here, at assembly time, against the current shipping step.
type BillingSummary struct {
	Address types.Address `json:"address"`
	GSTIN   string        `json:"gstin,omitempty"`
}

// PaymentSummary exposes only the displayable remainder of the payment.
type PaymentSummary struct {
	Method         enums.PaymentMethodKind `json:"method"`
	CardLast4      string                  `json:"card_last4,omitempty"`
	CardBrand      enums.CardBrand         `json:"card_brand,omitempty"`
	UPIVPA         string                  `json:"upi_vpa,omitempty"`
	BankCode       string                  `json:"bank_code,omitempty"`
	WalletProvider string                  `json:"wallet_provider,omitempty"`
	EMITenure      int                     `json:"emi_tenure,omitempty"`
	PaymentID      string                  `json:"payment_id,omitempty"`
}

var reviewedSteps = []enums.CheckoutStep{
	enums.StepContact,
	enums.StepShipping,
	enums.StepBilling,
	enums.StepPayment,
}

// Assemble builds the review payload from committed step data. Every
// prior step must be complete; assembly itself never mutates the
// session.
func Assemble(sess *session.Session, quote *pricing.Quote, now time.Time) (*OrderPayload, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session required")
	}
	if quote == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "quote required")
	}
	for _, step := range reviewedSteps {
		if !sess.StepCompleted(step) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is not ready for review").WithDetails(map[string]any{
				"missing_step": string(step),
			})
		}
	}
	if sess.Contact == nil || sess.Shipping == nil || sess.Billing == nil || sess.Payment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is missing committed step data")
	}

	billing := BillingSummary{GSTIN: sess.Billing.GSTIN}
	if sess.Billing.SameAsShipping {
		billing.Address = sess.Shipping.Address
	} else {
		if sess.Billing.Address == nil {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "billing address missing")
		}
		billing.Address = *sess.Billing.Address
	}

	paymentSummary := PaymentSummary{
		Method:         sess.Payment.Method,
		CardLast4:      sess.Payment.CardLast4,
		CardBrand:      sess.Payment.CardBrand,
		UPIVPA:         sess.Payment.UPIVPA,
		BankCode:       sess.Payment.BankCode,
		WalletProvider: sess.Payment.WalletProvider,
		EMITenure:      sess.Payment.EMITenure,
	}
	if sess.Payment.State != nil {
		paymentSummary.PaymentID = sess.Payment.State.PaymentID
	}

	items := make([]pricing.LineItem, len(sess.Items))
	copy(items, sess.Items)

	return &OrderPayload{
		SessionID: sess.ID,
		Contact:   *sess.Contact,
		Shipping: ShippingSummary{
			Address:              sess.Shipping.Address,
			MethodID:             sess.Shipping.MethodID,
			DeliveryInstructions: sess.Shipping.DeliveryInstructions,
			GiftWrap:             sess.Shipping.GiftWrap,
		},
		Billing:   billing,
		Payment:   paymentSummary,
		Items:     items,
		Quote:     *quote,
		CreatedAt: now,
	}, nil
}
