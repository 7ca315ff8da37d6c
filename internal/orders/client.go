package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/review"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/config"
	pkgerrors "github.com/chanderbhanswami/vardhman-mills-sub005/pkg/errors"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/logger"
)

// Submitter hands a finished checkout to the order system.
type Submitter interface {
	Submit(ctx context.Context, payload *review.OrderPayload) (string, error)
}

// Client posts assembled orders to the fulfillment endpoint.
type Client struct {
	url  string
	http *http.Client
	log  *logger.Logger
}

// NewClient constructs the order submission client.
func NewClient(cfg config.OrdersConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SubmitURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order submit url required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Client{
		url:  cfg.SubmitURL,
		http: &http.Client{Timeout: cfg.SubmitTimeout},
		log:  logg,
	}, nil
}

type submitResponse struct {
	OrderID string `json:"order_id"`
}

// Submit posts the payload and returns the assigned order id. Failures
// surface as retryable submission errors; the checkout stays intact so
// the shopper can try again.
func (c *Client) Submit(ctx context.Context, payload *review.OrderPayload) (string, error) {
	if payload == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "order payload required")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal order payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build order request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", payload.SessionID.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeSubmission, err, "submit order")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Error(ctx, "order submission rejected", fmt.Errorf("status %d: %s", resp.StatusCode, snippet))
		return "", pkgerrors.New(pkgerrors.CodeSubmission, "order system rejected the submission").WithDetails(map[string]any{
			"status": resp.StatusCode,
		})
	}

	var parsed submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeSubmission, err, "decode order response")
	}
	if strings.TrimSpace(parsed.OrderID) == "" {
		return "", pkgerrors.New(pkgerrors.CodeSubmission, "order response missing order id")
	}
	return parsed.OrderID, nil
}
