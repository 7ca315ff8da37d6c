package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	pkgerrors "github.com/chanderbhanswami/vardhman-mills-sub005/pkg/errors"
)

type contextKey string

const ctxSessionID contextKey = "checkout_session_id"

// SessionIDFromRequest extracts the authenticated checkout session id.
func SessionIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw, ok := r.Context().Value(ctxSessionID).(string)
	if !ok || raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	sessionID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session id")
	}
	return sessionID, nil
}

// WithSessionID seeds the context with an authenticated session id.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, ctxSessionID, sessionID)
}
