package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type contextKey string

// VisitorIDKey holds the per-browser visitor id in the request context
const VisitorIDKey contextKey = "visitor_id"

const visitorCookie = "velvet_visitor"

// Visitor assigns each browser a stable id via a long-lived cookie.
// The id keys the visitor's favorite set; it is advisory state, so a
// cleared cookie simply means a fresh, empty set.
func Visitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var visitorID string

		if c, err := r.Cookie(visitorCookie); err == nil {
			if id, err := uuid.Parse(c.Value); err == nil {
				visitorID = id.String()
			}
		}

		if visitorID == "" {
			visitorID = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     visitorCookie,
				Value:    visitorID,
				Path:     "/",
				Expires:  time.Now().Add(365 * 24 * time.Hour),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), VisitorIDKey, visitorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetVisitorID extracts the visitor id from context
func GetVisitorID(ctx context.Context) string {
	if id, ok := ctx.Value(VisitorIDKey).(string); ok {
		return id
	}
	return ""
}
