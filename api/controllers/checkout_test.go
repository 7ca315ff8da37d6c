package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chanderbhanswami/vardhman-mills-sub005/api/middleware"
	checkoutsvc "github.com/chanderbhanswami/vardhman-mills-sub005/internal/checkout"
	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/payment"
	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/pricing"
	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/review"
	checkoutsession "github.com/chanderbhanswami/vardhman-mills-sub005/internal/session"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/enums"
	pkgerrors "github.com/chanderbhanswami/vardhman-mills-sub005/pkg/errors"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/logger"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/money"
)

type stubCheckoutService struct {
	session   *checkoutsession.Session
	quote     *pricing.Quote
	state     *payment.State
	submit    *checkoutsvc.SubmitResult
	err       error
	confirmed int
}

func (s *stubCheckoutService) Start(ctx context.Context, items []pricing.LineItem) (*checkoutsession.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

func (s *stubCheckoutService) Get(ctx context.Context, sessionID uuid.UUID) (*checkoutsession.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

func (s *stubCheckoutService) SubmitStep(ctx context.Context, sessionID uuid.UUID, step enums.CheckoutStep, input checkoutsvc.StepInput) (*checkoutsession.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

func (s *stubCheckoutService) Navigate(ctx context.Context, sessionID uuid.UUID, target enums.CheckoutStep) (*checkoutsvc.NavigateResult, error) {
	return &checkoutsvc.NavigateResult{Session: s.session, Moved: false}, s.err
}

func (s *stubCheckoutService) QuoteFor(ctx context.Context, sessionID uuid.UUID) (*pricing.Quote, error) {
	return s.quote, s.err
}

func (s *stubCheckoutService) ApplyCoupon(ctx context.Context, sessionID uuid.UUID, code string) (*pricing.Quote, error) {
	return s.quote, s.err
}

func (s *stubCheckoutService) RemoveCoupon(ctx context.Context, sessionID uuid.UUID, code string) (*pricing.Quote, error) {
	return s.quote, s.err
}

func (s *stubCheckoutService) ConfirmPayment(ctx context.Context, sessionID uuid.UUID) (*payment.State, error) {
	s.confirmed++
	return s.state, s.err
}

func (s *stubCheckoutService) ResolvePayment(ctx context.Context, sessionID uuid.UUID, approved bool, transactionID string) (*payment.State, error) {
	return s.state, s.err
}

func (s *stubCheckoutService) RetryPayment(ctx context.Context, sessionID uuid.UUID) (*checkoutsession.Session, error) {
	return s.session, s.err
}

func (s *stubCheckoutService) Preview(ctx context.Context, sessionID uuid.UUID) (*review.OrderPayload, error) {
	return &review.OrderPayload{SessionID: sessionID}, s.err
}

func (s *stubCheckoutService) Submit(ctx context.Context, sessionID uuid.UUID) (*checkoutsvc.SubmitResult, error) {
	return s.submit, s.err
}

func (s *stubCheckoutService) Cancel(ctx context.Context, sessionID uuid.UUID) error {
	return s.err
}

func (s *stubCheckoutService) RecordPaymentTimeout(sessionID uuid.UUID, state payment.State) {}

type stubMinter struct {
	token string
	err   error
}

func (s stubMinter) Mint(sessionID string) (string, error) {
	return s.token, s.err
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func testSession() *checkoutsession.Session {
	return checkoutsession.New([]pricing.LineItem{{
		ProductID: uuid.New(),
		Name:      "Cotton Bedsheet",
		UnitPrice: money.INR(149900),
		Quantity:  1,
	}}, time.Now())
}

func authedRequest(method, target string, body io.Reader, sessionID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.WithSessionID(req.Context(), sessionID.String()))
}

func TestSessionCreateMintsToken(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{session: testSession()}
	handler := SessionCreate(svc, stubMinter{token: "signed-token"}, quietLogger())

	body := `{"items":[{"product_id":"` + uuid.NewString() + `","name":"Towel Set","unit_price_paise":59900,"quantity":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data struct {
			Token   string `json:"token"`
			Session struct {
				Steps []struct {
					Step       string `json:"step"`
					Accessible bool   `json:"accessible"`
				} `json:"steps"`
			} `json:"session"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Token != "signed-token" {
		t.Fatalf("expected minted token, got %q", envelope.Data.Token)
	}
	if len(envelope.Data.Session.Steps) != 5 {
		t.Fatalf("expected 5 step views, got %d", len(envelope.Data.Session.Steps))
	}
	if !envelope.Data.Session.Steps[0].Accessible {
		t.Fatal("contact step must be accessible on a fresh session")
	}
	if envelope.Data.Session.Steps[2].Accessible {
		t.Fatal("billing step must not be accessible on a fresh session")
	}
}

func TestSessionCreateRejectsMissingItems(t *testing.T) {
	t.Parallel()

	handler := SessionCreate(&stubCheckoutService{}, stubMinter{token: "t"}, quietLogger())
	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"items":[]}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestStepSubmitRejectsUnknownStep(t *testing.T) {
	t.Parallel()

	handler := StepSubmit(&stubCheckoutService{session: testSession()}, quietLogger())

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("step", "warehouse")
	req := authedRequest(http.MethodPost, "/steps/warehouse", strings.NewReader(`{}`), uuid.New())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestStepSubmitRequiresSession(t *testing.T) {
	t.Parallel()

	handler := StepSubmit(&stubCheckoutService{}, quietLogger())
	req := httptest.NewRequest(http.MethodPost, "/steps/contact", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestStepSubmitOutOfSequenceConflicts(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeStepSequence, "step is not accessible yet")}
	handler := StepSubmit(svc, quietLogger())

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("step", "payment")
	req := authedRequest(http.MethodPost, "/steps/payment", strings.NewReader(`{}`), uuid.New())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestPaymentConfirmMapsFailureTo402(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{state: &payment.State{
		Method:         enums.PaymentMethodCard,
		Status:         enums.PaymentStatusFailure,
		FailureCode:    "card_declined",
		FailureMessage: "card declined by issuer",
		Attempts:       1,
	}}
	handler := PaymentConfirm(svc, quietLogger())

	req := authedRequest(http.MethodPost, "/payment/confirm", nil, uuid.New())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "card declined by issuer") {
		t.Fatalf("expected the decline message in the body: %s", resp.Body.String())
	}
	if svc.confirmed != 1 {
		t.Fatalf("expected one confirm call, got %d", svc.confirmed)
	}
}

func TestPaymentConfirmSuccessReturnsState(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{state: &payment.State{
		Method:    enums.PaymentMethodCard,
		Status:    enums.PaymentStatusSuccess,
		PaymentID: "pay_123",
	}}
	handler := PaymentConfirm(svc, quietLogger())

	req := authedRequest(http.MethodPost, "/payment/confirm", nil, uuid.New())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "pay_123") {
		t.Fatalf("expected payment id in the body: %s", resp.Body.String())
	}
}

func TestPaymentCallbackCarriesTransactionID(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{state: &payment.State{
		Method:        enums.PaymentMethodUPI,
		Status:        enums.PaymentStatusSuccess,
		TransactionID: "txn_upi_9",
	}}
	handler := PaymentCallback(svc, quietLogger())

	body := `{"session_id":"` + uuid.NewString() + `","approved":true,"transaction_id":"txn_upi_9"}`
	req := httptest.NewRequest(http.MethodPost, "/payments/callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "txn_upi_9") {
		t.Fatalf("expected transaction id in the body: %s", resp.Body.String())
	}
}

func TestSubmitReturnsOrder(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{submit: &checkoutsvc.SubmitResult{
		OrderID: "VM-2026-000042",
		Payload: &review.OrderPayload{SessionID: uuid.New()},
	}}
	handler := Submit(svc, quietLogger())

	req := authedRequest(http.MethodPost, "/submit", nil, uuid.New())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "VM-2026-000042") {
		t.Fatalf("expected order id in the body: %s", resp.Body.String())
	}
}

func TestSubmitConflictWhenAlreadyPlaced(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "order already placed for this session")}
	handler := Submit(svc, quietLogger())

	req := authedRequest(http.MethodPost, "/submit", nil, uuid.New())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}
