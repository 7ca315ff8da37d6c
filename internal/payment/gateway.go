package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/enums"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/money"
)

// AuthorizeRequest carries what the gateway needs to take a payment.
type AuthorizeRequest struct {
	SessionID uuid.UUID
	Method    enums.PaymentMethodKind
	Amount    money.Money
	Reference string
}

// Authorization is a successful synchronous gateway response.
type Authorization struct {
	PaymentID     string
	TransactionID string
}

// DeclinedError is returned when the gateway refuses the charge.
type DeclinedError struct {
	Code    string
	Message string
}

func (e *DeclinedError) Error() string {
	return fmt.Sprintf("payment declined: %s (%s)", e.Message, e.Code)
}

// Gateway authorizes synchronous payment methods (card, EMI).
type Gateway interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (*Authorization, error)
}

// InProcessGateway authorizes charges locally. It stands in for a real
// acquirer integration and keeps the processor contract exercised
// end to end.
type InProcessGateway struct{}

func (InProcessGateway) Authorize(ctx context.Context, req AuthorizeRequest) (*Authorization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Amount.Amount <= 0 {
		return nil, &DeclinedError{Code: "invalid_amount", Message: "charge amount must be positive"}
	}
	return &Authorization{
		PaymentID:     "pay_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		TransactionID: "txn_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
	}, nil
}
