// internal/auth/middleware.go
package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const AgencyIDKey contextKey = "agency_id"

func JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			http.Error(w, "missing or invalid Authorization header", http.StatusUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(auth, "Bearer ")
		claims, err := ValidateToken(tokenStr)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Inject agency_id into context
		ctx := context.WithValue(r.Context(), AgencyIDKey, claims.AgencyID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAgencyID extracts agency_id from context
func GetAgencyID(r *http.Request) int64 {
	if val := r.Context().Value(AgencyIDKey); val != nil {
		if id, ok := val.(int64); ok {
			return id
		}
	}
	return 0
}
