package httpapi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"filesafe/internal/common"
	"filesafe/internal/server/auth"
)

type ctxKey string

const personIDKey ctxKey = "personID"

// personIDFromContext returns the identifier placed by requireAccessToken.
func personIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(personIDKey).(string)
	return id
}

// requireAccessToken verifies the bearer token and stores the authenticated
// person's identifier in the request context.
func (s *HTTPServer) requireAccessToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get(common.AccessTokenHeaderName), "Bearer ")
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}
		personID, err := auth.GetPersonIDFromToken(token, s.jwtSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), personIDKey, personID)
		next(w, r.WithContext(ctx))
	}
}

// requireServiceToken guards administrative endpoints with the static
// service token.
func (s *HTTPServer) requireServiceToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(common.ServiceTokenHeaderName)
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.serviceToken)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid service token")
			return
		}
		next(w, r)
	}
}
