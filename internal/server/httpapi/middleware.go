package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/docvault-app/docvault/internal/common"
	"github.com/docvault-app/docvault/internal/server/auth"
)

type contextKey string

const userIDKey contextKey = "userID"

// userID extracts the authenticated user id installed by authMiddleware.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// authMiddleware verifies the bearer token and installs the user id into the
// request context. Requests without a valid token get a 401.
func authMiddleware(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(common.AccessTokenHeaderName)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeError(w, common.ErrUnauthorized)
				return
			}

			id, err := auth.GetUserIDFromToken(token, secretKey)
			if err != nil {
				writeError(w, common.ErrInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
