package controllers

import (
	"time"

	"github.com/google/uuid"

	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/pricing"
	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/session"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/enums"
)

type stepView struct {
	Step       enums.CheckoutStep `json:"step"`
	Completed  bool               `json:"completed"`
	Accessible bool               `json:"accessible"`
	Current    bool               `json:"current"`
}

type sessionResponse struct {
	ID          uuid.UUID                `json:"id"`
	CurrentStep enums.CheckoutStep       `json:"current_step"`
	Steps       []stepView               `json:"steps"`
	Items       []pricing.LineItem       `json:"items"`
	Coupons     []pricing.Coupon         `json:"coupons,omitempty"`
	Contact     *session.ContactDetails  `json:"contact,omitempty"`
	Shipping    *session.ShippingDetails `json:"shipping,omitempty"`
	Billing     *session.BillingDetails  `json:"billing,omitempty"`
	Payment     *session.PaymentDetails  `json:"payment,omitempty"`
	OrderID     string                   `json:"order_id,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// newSessionResponse shapes a session for the storefront, annotating
// each step with whether the shopper may navigate to it.
func newSessionResponse(sess *session.Session) *sessionResponse {
	steps := make([]stepView, 0, len(enums.StepOrder))
	for _, step := range enums.StepOrder {
		steps = append(steps, stepView{
			Step:       step,
			Completed:  sess.StepCompleted(step),
			Accessible: sess.StepAccessible(step),
			Current:    sess.CurrentStep == step,
		})
	}
	return &sessionResponse{
		ID:          sess.ID,
		CurrentStep: sess.CurrentStep,
		Steps:       steps,
		Items:       sess.Items,
		Coupons:     sess.Coupons,
		Contact:     sess.Contact,
		Shipping:    sess.Shipping,
		Billing:     sess.Billing,
		Payment:     sess.Payment,
		OrderID:     sess.OrderID,
		CreatedAt:   sess.CreatedAt,
		UpdatedAt:   sess.UpdatedAt,
	}
}
