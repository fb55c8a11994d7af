package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/velvetnails/velvet-api/internal/pkg/jwt"
	"github.com/velvetnails/velvet-api/internal/pkg/response"
)

type contextKey string

const (
	// AdminIDKey holds the authenticated admin id in the request context
	AdminIDKey contextKey = "admin_id"
	// SessionIDKey holds the live session id in the request context
	SessionIDKey contextKey = "session_id"
)

// SessionAuth returns middleware that authenticates admin requests.
// The JWT only names the session; the session store decides whether
// it is still alive. Touching the store re-arms the idle deadline, so
// any authenticated request counts as activity.
func SessionAuth(jwtService *jwt.Service, sessions SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Not authenticated")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				response.Unauthorized(w, "Not authenticated")
				return
			}

			claims, err := jwtService.ValidateSessionToken(parts[1])
			if err != nil {
				response.Unauthorized(w, "Not authenticated")
				return
			}

			adminID, err := sessions.Touch(r.Context(), claims.SessionID)
			if err != nil {
				// Idled out, logged out or store error: same outside view
				response.Unauthorized(w, "Session expired")
				return
			}

			ctx := context.WithValue(r.Context(), AdminIDKey, adminID)
			ctx = context.WithValue(ctx, SessionIDKey, claims.SessionID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdminID extracts the authenticated admin id from context
func GetAdminID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(AdminIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetSessionID extracts the live session id from context
func GetSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(SessionIDKey).(string); ok {
		return id
	}
	return ""
}
