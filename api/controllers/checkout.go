package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chanderbhanswami/vardhman-mills-sub005/api/middleware"
	"github.com/chanderbhanswami/vardhman-mills-sub005/api/responses"
	"github.com/chanderbhanswami/vardhman-mills-sub005/api/validators"
	checkoutsvc "github.com/chanderbhanswami/vardhman-mills-sub005/internal/checkout"
	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/payment"
	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/pricing"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/enums"
	pkgerrors "github.com/chanderbhanswami/vardhman-mills-sub005/pkg/errors"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/logger"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/money"
)

// TokenMinter issues a guest session token for a new checkout.
type TokenMinter interface {
	Mint(sessionID string) (string, error)
}

type sessionCreateItem struct {
	ProductID           uuid.UUID `json:"product_id" validate:"required"`
	Name                string    `json:"name" validate:"required,min=1,max=200"`
	UnitPricePaise      int64     `json:"unit_price_paise" validate:"gte=0"`
	Quantity            int       `json:"quantity" validate:"required,gt=0"`
	CompareAtPricePaise *int64    `json:"compare_at_price_paise,omitempty" validate:"omitempty,gte=0"`
}

type sessionCreateBody struct {
	Items []sessionCreateItem `json:"items" validate:"required,min=1,dive"`
}

// SessionCreate opens a guest checkout and returns its bearer token.
func SessionCreate(svc checkoutsvc.Service, tokens TokenMinter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body sessionCreateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]pricing.LineItem, 0, len(body.Items))
		for _, item := range body.Items {
			line := pricing.LineItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				UnitPrice: money.INR(item.UnitPricePaise),
				Quantity:  item.Quantity,
			}
			if item.CompareAtPricePaise != nil {
				compare := money.INR(*item.CompareAtPricePaise)
				line.CompareAtPrice = &compare
			}
			items = append(items, line)
		}

		sess, err := svc.Start(r.Context(), items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := tokens.Mint(sess.ID.String())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token"))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"session": newSessionResponse(sess),
			"token":   token,
		})
	}
}

// SessionCurrent restores the authenticated session.
func SessionCurrent(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := middleware.SessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sess, err := svc.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSessionResponse(sess))
	}
}

// SessionCancel abandons the authenticated session.
func SessionCancel(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := middleware.SessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Cancel(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"cancelled": true})
	}
}

// StepSubmit validates and commits the step named in the path.
func StepSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := middleware.SessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		step, err := enums.ParseCheckoutStep(chi.URLParam(r, "step"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown step"))
			return
		}

		var input checkoutsvc.StepInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := svc.SubmitStep(r.Context(), sessionID, step, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSessionResponse(sess))
	}
}

type navigateBody struct {
	Step string `json:"step" validate:"required"`
}

// Navigate moves the session to an accessible step. An inaccessible
// target returns the unchanged session with moved=false.
func Navigate(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := middleware.SessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body navigateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target := enums.CheckoutStep(body.Step)
		result, err := svc.Navigate(r.Context(), sessionID, target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"session": newSessionResponse(result.Session),
			"moved":   result.Moved,
		})
	}
}

// Quote prices the session as it stands.
func Quote(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := middleware.SessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quote, err := svc.QuoteFor(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

type couponBody struct {
	Code string `json:"code" validate:"required,min=2,max=32"`
}

// CouponApply attaches a coupon and returns the repriced quote.
func CouponApply(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := middleware.SessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body couponBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quote, err := svc.ApplyCoupon(r.Context(), sessionID, body.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// CouponRemove detaches a coupon and returns the repriced quote.
func CouponRemove(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := middleware.SessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		code := chi.URLParam(r, "code")
		quote, err := svc.RemoveCoupon(r.Context(), sessionID, code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// PaymentMethods lists the supported methods and their input schemas.
func PaymentMethods() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"methods": payment.Methods()})
	}
}

// ShippingMethods lists the delivery options.
func ShippingMethods() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"methods": pricing.ShippingMethods()})
	}
}

// PaymentConfirm charges the committed payment method.
func PaymentConfirm(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := middleware.SessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state, err := svc.ConfirmPayment(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if state.Status == enums.PaymentStatusFailure {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodePayment, state.FailureMessage).WithDetails(map[string]any{
					"failure_code": state.FailureCode,
					"attempts":     state.Attempts,
				}))
			return
		}
		responses.WriteSuccess(w, state)
	}
}

type paymentCallbackBody struct {
	SessionID     uuid.UUID `json:"session_id" validate:"required"`
	Approved      bool      `json:"approved"`
	TransactionID string    `json:"transaction_id"`
}

// PaymentCallback receives the external outcome for an asynchronous
// payment. It is called by the payment provider, not the storefront.
func PaymentCallback(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body paymentCallbackBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state, err := svc.ResolvePayment(r.Context(), body.SessionID, body.Approved, body.TransactionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// PaymentRetry clears the payment outcome for another attempt.
func PaymentRetry(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := middleware.SessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sess, err := svc.RetryPayment(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSessionResponse(sess))
	}
}

// Submit assembles the review payload and places the order.
func Submit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := middleware.SessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Submit(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"order_id": result.OrderID,
			"order":    result.Payload,
		})
	}
}

// Review assembles the order for display without placing it.
func Review(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := middleware.SessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payload, err := svc.Preview(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payload)
	}
}
