package middleware

import (
	"net/http"
	"strings"

	"github.com/chanderbhanswami/vardhman-mills-sub005/api/responses"
	pkgerrors "github.com/chanderbhanswami/vardhman-mills-sub005/pkg/errors"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/logger"
)

// TokenParser verifies a guest session token and returns the session id.
type TokenParser interface {
	Parse(token string) (string, error)
}

// GuestSession validates the bearer token minted at session creation and
// seeds the request context with the checkout session id.
func GuestSession(parser TokenParser, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			sessionID, err := parser.Parse(token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
