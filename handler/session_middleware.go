package handler

import (
	"context"
	"go-ledger-api/common"
	"net/http"
)

type contextKey string

const (
	SessionIDKey contextKey = "sessionID"
)

const (
	// SessionCookieName is the cookie carrying the opaque session token.
	SessionCookieName = "sessionId"
	// SessionCookieMaxAge is 7 days, in seconds.
	SessionCookieMaxAge = 604800
)

// SessionMiddleware guards routes that require an existing session. The
// cookie value is an opaque scoping token, not a credential: anyone holding
// it can read the session's transactions. That is the documented contract,
// so this middleware only checks presence, never authenticity.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			appErr := common.NewAppError(http.StatusUnauthorized, "Session cookie is required", nil)
			appErr.Send(w)
			return
		}

		ctx := context.WithValue(r.Context(), SessionIDKey, cookie.Value)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
