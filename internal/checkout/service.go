package checkout

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/orders"
	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/payment"
	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/pricing"
	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/review"
	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/session"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/enums"
	pkgerrors "github.com/chanderbhanswami/vardhman-mills-sub005/pkg/errors"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/logger"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/metrics"
)

// NavigateResult reports what a navigation request did. An inaccessible
// target leaves the session untouched and Moved false.
type NavigateResult struct {
	Session *session.Session
	Moved   bool
}

// Service walks a guest through the checkout sequence.
type Service interface {
	Start(ctx context.Context, items []pricing.LineItem) (*session.Session, error)
	Get(ctx context.Context, sessionID uuid.UUID) (*session.Session, error)
	SubmitStep(ctx context.Context, sessionID uuid.UUID, step enums.CheckoutStep, input StepInput) (*session.Session, error)
	Navigate(ctx context.Context, sessionID uuid.UUID, target enums.CheckoutStep) (*NavigateResult, error)
	QuoteFor(ctx context.Context, sessionID uuid.UUID) (*pricing.Quote, error)
	ApplyCoupon(ctx context.Context, sessionID uuid.UUID, code string) (*pricing.Quote, error)
	RemoveCoupon(ctx context.Context, sessionID uuid.UUID, code string) (*pricing.Quote, error)
	ConfirmPayment(ctx context.Context, sessionID uuid.UUID) (*payment.State, error)
	ResolvePayment(ctx context.Context, sessionID uuid.UUID, approved bool, transactionID string) (*payment.State, error)
	RetryPayment(ctx context.Context, sessionID uuid.UUID) (*session.Session, error)
	Preview(ctx context.Context, sessionID uuid.UUID) (*review.OrderPayload, error)
	Submit(ctx context.Context, sessionID uuid.UUID) (*SubmitResult, error)
	Cancel(ctx context.Context, sessionID uuid.UUID) error
	RecordPaymentTimeout(sessionID uuid.UUID, state payment.State)
}

// SubmitResult is the outcome of placing the order.
type SubmitResult struct {
	OrderID string
	Payload *review.OrderPayload
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Sessions session.Repository
	Payments payment.Service
	Engine   *pricing.Engine
	Orders   orders.Submitter
	Logger   *logger.Logger
	Metrics  *metrics.CheckoutMetrics
	Now      func() time.Time
}

type service struct {
	sessions session.Repository
	payments payment.Service
	engine   *pricing.Engine
	orders   orders.Submitter
	log      *logger.Logger
	metrics  *metrics.CheckoutMetrics
	now      func() time.Time
}

// NewService constructs the checkout service.
func NewService(params ServiceParams) (*service, error) {
	if params.Sessions == nil {
		return nil, fmt.Errorf("session repository required")
	}
	if params.Payments == nil {
		return nil, fmt.Errorf("payment service required")
	}
	if params.Engine == nil {
		return nil, fmt.Errorf("pricing engine required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order submitter required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Metrics == nil {
		params.Metrics = metrics.NewCheckoutMetrics(nil)
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		sessions: params.Sessions,
		payments: params.Payments,
		engine:   params.Engine,
		orders:   params.Orders,
		log:      params.Logger,
		metrics:  params.Metrics,
		now:      params.Now,
	}, nil
}

// Start opens a fresh session at the contact step.
func (s *service) Start(ctx context.Context, items []pricing.LineItem) (*session.Session, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout requires at least one item")
	}
	for _, item := range items {
		if item.Quantity <= 0 || item.UnitPrice.Amount < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid line item").WithDetails(map[string]any{
				"product_id": item.ProductID,
			})
		}
	}

	sess := session.New(items, s.now())
	if err := s.sessions.SaveNow(ctx, sess); err != nil {
		return nil, err
	}
	s.log.Info(s.log.WithSessionID(ctx, sess.ID.String()), "checkout session started")
	return sess, nil
}

// Get restores the session from its snapshot.
func (s *service) Get(ctx context.Context, sessionID uuid.UUID) (*session.Session, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
	}
	return sess, nil
}

// SubmitStep validates and commits one step. Validation runs before any
// session mutation: a failed submit leaves the session exactly as it
// was. A successful submit records completion and advances the current
// step when the submitted step was the frontier.
func (s *service) SubmitStep(ctx context.Context, sessionID uuid.UUID, step enums.CheckoutStep, input StepInput) (*session.Session, error) {
	started := s.now()
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.StepAccessible(step) {
		s.metrics.IncStepSubmission(string(step), "rejected")
		return nil, pkgerrors.New(pkgerrors.CodeStepSequence, "step is not accessible yet").WithDetails(map[string]any{
			"step":    string(step),
			"current": string(sess.CurrentStep),
		})
	}

	ctx = s.log.WithStep(s.log.WithSessionID(ctx, sessionID.String()), string(step))

	var commit func(*session.Session) error
	switch step {
	case enums.StepContact:
		commit, err = s.prepareContact(input.Contact)
	case enums.StepShipping:
		commit, err = s.prepareShipping(input.Shipping)
	case enums.StepBilling:
		commit, err = s.prepareBilling(input.Billing)
	case enums.StepPayment:
		commit, err = s.preparePayment(input.Payment)
	default:
		err = pkgerrors.New(pkgerrors.CodeValidation, "step does not accept submissions").WithDetails(map[string]any{
			"step": string(step),
		})
	}
	if err != nil {
		s.metrics.IncStepSubmission(string(step), "invalid")
		return nil, err
	}

	if err := commit(sess); err != nil {
		s.metrics.IncStepSubmission(string(step), "invalid")
		return nil, err
	}
	sess.MarkCompleted(step)
	if sess.CurrentStep == step {
		if next, ok := step.Next(); ok {
			sess.CurrentStep = next
		}
	}
	sess.UpdatedAt = s.now()

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.metrics.IncStepSubmission(string(step), "accepted")
	s.metrics.ObserveStepDuration(string(step), s.now().Sub(started))
	s.log.Info(ctx, "step committed")
	return sess, nil
}

// Navigate moves the session's current step. An inaccessible target is
// a silent no-op so a stale client cannot corrupt the sequence.
func (s *service) Navigate(ctx context.Context, sessionID uuid.UUID, target enums.CheckoutStep) (*NavigateResult, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !target.IsValid() || !sess.StepAccessible(target) {
		return &NavigateResult{Session: sess, Moved: false}, nil
	}
	if sess.CurrentStep == target {
		return &NavigateResult{Session: sess, Moved: false}, nil
	}

	sess.CurrentStep = target
	sess.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &NavigateResult{Session: sess, Moved: true}, nil
}

// QuoteFor prices the session as it stands.
func (s *service) QuoteFor(ctx context.Context, sessionID uuid.UUID) (*pricing.Quote, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.quote(sess)
}

// ApplyCoupon attaches a catalog coupon and reprices. The coupon stays
// on the session even when ineligible today; eligibility is re-checked
// on every quote.
func (s *service) ApplyCoupon(ctx context.Context, sessionID uuid.UUID, code string) (*pricing.Quote, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	coupon, err := pricing.LookupCoupon(code)
	if err != nil {
		return nil, err
	}
	for _, existing := range sess.Coupons {
		if existing.Code == coupon.Code {
			return s.quote(sess)
		}
	}
	sess.Coupons = append(sess.Coupons, coupon)
	sess.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return s.quote(sess)
}

// RemoveCoupon detaches a coupon and reprices.
func (s *service) RemoveCoupon(ctx context.Context, sessionID uuid.UUID, code string) (*pricing.Quote, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	normalized := strings.ToUpper(strings.TrimSpace(code))
	kept := sess.Coupons[:0]
	for _, coupon := range sess.Coupons {
		if coupon.Code != normalized {
			kept = append(kept, coupon)
		}
	}
	sess.Coupons = kept
	sess.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return s.quote(sess)
}

// ConfirmPayment charges (or begins charging) the committed payment
// method for the current total.
func (s *service) ConfirmPayment(ctx context.Context, sessionID uuid.UUID) (*payment.State, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Payment == nil || !sess.StepCompleted(enums.StepPayment) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment step has not been committed")
	}

	quote, err := s.quote(sess)
	if err != nil {
		return nil, err
	}

	state, err := s.payments.Confirm(ctx, sessionID, sess.Payment.Method, quote.Total)
	if err != nil {
		return nil, err
	}

	sess.Payment.State = state
	sess.UpdatedAt = s.now()
	if err := s.sessions.SaveNow(ctx, sess); err != nil {
		return nil, err
	}
	return state, nil
}

// ResolvePayment records the external outcome of an asynchronous
// payment (UPI, netbanking, wallet) and persists it.
func (s *service) ResolvePayment(ctx context.Context, sessionID uuid.UUID, approved bool, transactionID string) (*payment.State, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Payment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment step has not been committed")
	}
	state, err := s.payments.Resolve(ctx, sessionID, approved, transactionID)
	if err != nil {
		return nil, err
	}
	sess.Payment.State = state
	sess.UpdatedAt = s.now()
	if err := s.sessions.SaveNow(ctx, sess); err != nil {
		return nil, err
	}
	return state, nil
}

// RetryPayment clears only the payment outcome; every committed step
// survives untouched.
func (s *service) RetryPayment(ctx context.Context, sessionID uuid.UUID) (*session.Session, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state, err := s.payments.Retry(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Payment != nil {
		sess.Payment.State = state
	}
	sess.UpdatedAt = s.now()
	if err := s.sessions.SaveNow(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Preview assembles the order for the review step without placing it.
func (s *service) Preview(ctx context.Context, sessionID uuid.UUID) (*review.OrderPayload, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	quote, err := s.quote(sess)
	if err != nil {
		return nil, err
	}
	return review.Assemble(sess, quote, s.now())
}

// Submit assembles the review payload and places the order. A
// submission failure leaves everything in place for a retry; success
// discards the session.
func (s *service) Submit(ctx context.Context, sessionID uuid.UUID) (*SubmitResult, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.OrderID != "" {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order already placed for this session").WithDetails(map[string]any{
			"order_id": sess.OrderID,
		})
	}
	if sess.Payment == nil || sess.Payment.State == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment has not been confirmed")
	}
	switch sess.Payment.State.Status {
	case enums.PaymentStatusSuccess, enums.PaymentStatusPending:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment is not in a submittable state").WithDetails(map[string]any{
			"status": string(sess.Payment.State.Status),
		})
	}

	quote, err := s.quote(sess)
	if err != nil {
		return nil, err
	}
	payload, err := review.Assemble(sess, quote, s.now())
	if err != nil {
		return nil, err
	}

	orderID, err := s.orders.Submit(ctx, payload)
	if err != nil {
		s.metrics.IncOrderSubmission("failure")
		return nil, err
	}

	s.payments.Cancel(sessionID)
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		// The order exists; keep a marked snapshot so a replayed submit
		// cannot place it twice.
		sess.OrderID = orderID
		sess.UpdatedAt = s.now()
		if saveErr := s.sessions.SaveNow(ctx, sess); saveErr != nil {
			s.log.Error(s.log.WithSessionID(ctx, sessionID.String()), "persist submitted session", saveErr)
		}
	}
	s.metrics.IncOrderSubmission("success")
	s.log.Info(s.log.WithSessionID(ctx, sessionID.String()), "order placed")
	return &SubmitResult{OrderID: orderID, Payload: payload}, nil
}

// Cancel abandons the session and drops its snapshot.
func (s *service) Cancel(ctx context.Context, sessionID uuid.UUID) error {
	s.payments.Cancel(sessionID)
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.log.Info(s.log.WithSessionID(ctx, sessionID.String()), "checkout session cancelled")
	return nil
}

// RecordPaymentTimeout persists an expired payment outcome. Wired as
// the payment service's timeout callback.
func (s *service) RecordPaymentTimeout(sessionID uuid.UUID, state payment.State) {
	ctx := context.Background()
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil || sess == nil || sess.Payment == nil {
		return
	}
	recorded := state
	sess.Payment.State = &recorded
	sess.UpdatedAt = s.now()
	if err := s.sessions.SaveNow(ctx, sess); err != nil {
		s.log.Error(s.log.WithSessionID(ctx, sessionID.String()), "persist payment timeout", err)
	}
}

func (s *service) quote(sess *session.Session) (*pricing.Quote, error) {
	input := pricing.QuoteInput{
		Items:            sess.Items,
		ShippingMethodID: "standard",
		Coupons:          sess.Coupons,
		Now:              s.now(),
	}
	if sess.Shipping != nil {
		input.ShippingMethodID = sess.Shipping.MethodID
		input.GiftWrap = sess.Shipping.GiftWrap
	}
	if sess.Payment != nil && sess.Payment.Method == enums.PaymentMethodCOD {
		input.CODSelected = true
	}
	return s.engine.Quote(input)
}

func parseInt(value string) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return parsed
}

func lastFour(cardNumber string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, cardNumber)
	if len(digits) < 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
