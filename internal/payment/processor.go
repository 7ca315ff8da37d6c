package payment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/config"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/enums"
	pkgerrors "github.com/chanderbhanswami/vardhman-mills-sub005/pkg/errors"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/logger"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/metrics"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/money"
)

// State is the per-session payment record carried in snapshots.
type State struct {
	Method         enums.PaymentMethodKind `json:"method"`
	Status         enums.PaymentStatus     `json:"status"`
	PaymentID      string                  `json:"payment_id,omitempty"`
	TransactionID  string                  `json:"transaction_id,omitempty"`
	FailureCode    string                  `json:"failure_code,omitempty"`
	FailureMessage string                  `json:"failure_message,omitempty"`
	Attempts       int                     `json:"attempts"`
	DeadlineAt     *time.Time              `json:"deadline_at,omitempty"`
}

// Service drives payment confirmation across all supported methods.
// Synchronous methods settle inside Confirm; asynchronous ones move to
// waiting and either Resolve within the wait window or time out.
type Service interface {
	Confirm(ctx context.Context, sessionID uuid.UUID, method enums.PaymentMethodKind, amount money.Money) (*State, error)
	Resolve(ctx context.Context, sessionID uuid.UUID, approved bool, transactionID string) (*State, error)
	Retry(ctx context.Context, sessionID uuid.UUID) (*State, error)
	State(sessionID uuid.UUID) (*State, bool)
	Cancel(sessionID uuid.UUID)
}

// ServiceParams groups dependencies for the payment service.
type ServiceParams struct {
	Gateway Gateway
	Config  config.PaymentConfig
	Logger  *logger.Logger
	Metrics *metrics.CheckoutMetrics
	// OnTimeout fires after a waiting payment expires, outside the lock.
	OnTimeout func(sessionID uuid.UUID, state State)
	// Now is injectable for tests.
	Now func() time.Time
}

type entry struct {
	state State
	timer *time.Timer
}

type service struct {
	gateway   Gateway
	cfg       config.PaymentConfig
	log       *logger.Logger
	metrics   *metrics.CheckoutMetrics
	onTimeout func(sessionID uuid.UUID, state State)
	now       func() time.Time

	mu     sync.Mutex
	active map[uuid.UUID]*entry
}

// NewService constructs the payment service.
func NewService(params ServiceParams) (*service, error) {
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment gateway required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	if params.Metrics == nil {
		params.Metrics = metrics.NewCheckoutMetrics(nil)
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		gateway:   params.Gateway,
		cfg:       params.Config,
		log:       params.Logger,
		metrics:   params.Metrics,
		onTimeout: params.OnTimeout,
		now:       params.Now,
		active:    make(map[uuid.UUID]*entry),
	}, nil
}

// Confirm begins payment for the session. A session already waiting on
// or past a terminal outcome must retry first.
func (s *service) Confirm(ctx context.Context, sessionID uuid.UUID, method enums.PaymentMethodKind, amount money.Money) (*State, error) {
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method").WithDetails(map[string]any{
			"method": string(method),
		})
	}

	s.mu.Lock()
	existing, found := s.active[sessionID]
	if found && existing.state.Status == enums.PaymentStatusWaiting {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a payment is already in progress for this session")
	}
	if found && existing.state.Status.IsTerminal() && existing.state.Status != enums.PaymentStatusFailure {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment already completed for this session")
	}
	attempts := 1
	if found {
		attempts = existing.state.Attempts + 1
	}
	s.mu.Unlock()

	ctx = s.log.WithPaymentMethod(s.log.WithSessionID(ctx, sessionID.String()), string(method))

	var state State
	switch {
	case method == enums.PaymentMethodCOD:
		state = State{
			Method:    method,
			Status:    enums.PaymentStatusPending,
			PaymentID: "cod_" + uuid.NewString(),
			Attempts:  attempts,
		}
		s.log.Info(ctx, "cash on delivery accepted")

	case method.IsAsync():
		deadline := s.now().Add(s.waitWindow(method))
		state = State{
			Method:     method,
			Status:     enums.PaymentStatusWaiting,
			Attempts:   attempts,
			DeadlineAt: &deadline,
		}
		s.log.Info(ctx, "payment waiting on external confirmation")

	default:
		auth, err := s.gateway.Authorize(ctx, AuthorizeRequest{
			SessionID: sessionID,
			Method:    method,
			Amount:    amount,
			Reference: sessionID.String(),
		})
		var declined *DeclinedError
		switch {
		case errors.As(err, &declined):
			state = State{
				Method:         method,
				Status:         enums.PaymentStatusFailure,
				FailureCode:    declined.Code,
				FailureMessage: declined.Message,
				Attempts:       attempts,
			}
			s.log.Warn(ctx, "payment declined")
		case err != nil:
			return nil, pkgerrors.Wrap(pkgerrors.CodePayment, err, "authorize payment")
		default:
			state = State{
				Method:        method,
				Status:        enums.PaymentStatusSuccess,
				PaymentID:     auth.PaymentID,
				TransactionID: auth.TransactionID,
				Attempts:      attempts,
			}
			s.log.Info(ctx, "payment authorized")
		}
	}

	s.mu.Lock()
	ent := &entry{state: state}
	if state.Status == enums.PaymentStatusWaiting {
		ent.timer = time.AfterFunc(s.waitWindow(method), func() {
			s.expire(sessionID)
		})
	}
	s.active[sessionID] = ent
	s.mu.Unlock()

	s.metrics.IncPaymentOutcome(string(method), string(state.Status))
	return cloneState(state), nil
}

// Resolve records the external outcome for a waiting payment.
func (s *service) Resolve(ctx context.Context, sessionID uuid.UUID, approved bool, transactionID string) (*State, error) {
	s.mu.Lock()
	ent, found := s.active[sessionID]
	if !found || ent.state.Status != enums.PaymentStatusWaiting {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no payment awaiting confirmation for this session")
	}
	if ent.timer != nil {
		ent.timer.Stop()
		ent.timer = nil
	}
	if approved {
		ent.state.Status = enums.PaymentStatusSuccess
		ent.state.PaymentID = "pay_" + uuid.NewString()
		ent.state.TransactionID = transactionID
	} else {
		ent.state.Status = enums.PaymentStatusFailure
		ent.state.FailureCode = string(pkgerrors.CodePayment)
		ent.state.FailureMessage = "payment was not approved"
	}
	ent.state.DeadlineAt = nil
	state := ent.state
	s.mu.Unlock()

	ctx = s.log.WithPaymentMethod(s.log.WithSessionID(ctx, sessionID.String()), string(state.Method))
	s.log.Info(ctx, "payment resolved")
	s.metrics.IncPaymentOutcome(string(state.Method), string(state.Status))
	return cloneState(state), nil
}

// Retry clears only the payment record so the shopper can try again.
// Completed payments cannot be retried.
func (s *service) Retry(ctx context.Context, sessionID uuid.UUID) (*State, error) {
	s.mu.Lock()
	ent, found := s.active[sessionID]
	if !found {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no payment attempt to retry")
	}
	if ent.state.Status == enums.PaymentStatusSuccess || ent.state.Status == enums.PaymentStatusPending {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment already completed for this session")
	}
	if ent.timer != nil {
		ent.timer.Stop()
		ent.timer = nil
	}
	ent.state = State{
		Status:   enums.PaymentStatusIdle,
		Attempts: ent.state.Attempts,
	}
	state := ent.state
	s.mu.Unlock()

	s.log.Info(s.log.WithSessionID(ctx, sessionID.String()), "payment reset for retry")
	return cloneState(state), nil
}

// State returns the current payment record, if any.
func (s *service) State(sessionID uuid.UUID) (*State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ent, found := s.active[sessionID]
	if !found {
		return nil, false
	}
	return cloneState(ent.state), true
}

// Cancel drops the session's payment record and stops any timer.
func (s *service) Cancel(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ent, found := s.active[sessionID]; found && ent.timer != nil {
		ent.timer.Stop()
	}
	delete(s.active, sessionID)
}

func (s *service) expire(sessionID uuid.UUID) {
	s.mu.Lock()
	ent, found := s.active[sessionID]
	if !found || ent.state.Status != enums.PaymentStatusWaiting {
		s.mu.Unlock()
		return
	}
	ent.state.Status = enums.PaymentStatusFailure
	ent.state.FailureCode = string(pkgerrors.CodePaymentTimeout)
	ent.state.FailureMessage = "payment confirmation window elapsed"
	ent.state.DeadlineAt = nil
	ent.timer = nil
	state := ent.state
	s.mu.Unlock()

	ctx := s.log.WithPaymentMethod(s.log.WithSessionID(context.Background(), sessionID.String()), string(state.Method))
	s.log.Warn(ctx, "payment timed out")
	s.metrics.IncPaymentOutcome(string(state.Method), string(state.Status))
	if s.onTimeout != nil {
		s.onTimeout(sessionID, state)
	}
}

func (s *service) waitWindow(method enums.PaymentMethodKind) time.Duration {
	switch method {
	case enums.PaymentMethodUPI:
		return s.cfg.UPIWaitWindow
	case enums.PaymentMethodNetbanking:
		return s.cfg.NetbankingWaitWindow
	case enums.PaymentMethodWallet:
		return s.cfg.WalletWaitWindow
	}
	return 0
}

func cloneState(state State) *State {
	out := state
	if state.DeadlineAt != nil {
		deadline := *state.DeadlineAt
		out.DeadlineAt = &deadline
	}
	return &out
}
