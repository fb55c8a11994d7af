package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/velvetnails/velvet-api/internal/pkg/jwt"
)

func authedRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin/designs", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestSessionAuthAcceptsLiveSession(t *testing.T) {
	jwtService := jwt.NewService("test-secret", 12*time.Hour)
	sessions := newFakeSessions(5 * time.Minute)
	adminID := uuid.New()

	sessionID, _ := sessions.Create(context.Background(), adminID)
	token, _ := jwtService.GenerateSessionToken(adminID, sessionID)

	var gotAdmin uuid.UUID
	handler := SessionAuth(jwtService, sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAdmin = GetAdminID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(token))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if gotAdmin != adminID {
		t.Errorf("admin id %s, want %s", gotAdmin, adminID)
	}
}

func TestSessionAuthTouchesPerRequest(t *testing.T) {
	jwtService := jwt.NewService("test-secret", 12*time.Hour)
	sessions := newFakeSessions(5 * time.Minute)
	adminID := uuid.New()

	sessionID, _ := sessions.Create(context.Background(), adminID)
	token, _ := jwtService.GenerateSessionToken(adminID, sessionID)

	handler := SessionAuth(jwtService, sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Requests every 4 minutes keep a 5-minute session alive forever
	for i := 0; i < 5; i++ {
		sessions.advance(4 * time.Minute)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(token))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d, want 200", i, rec.Code)
		}
	}
	if sessions.touches != 5 {
		t.Errorf("touches = %d, want one per request", sessions.touches)
	}
}

func TestSessionAuthRejectsIdleSession(t *testing.T) {
	jwtService := jwt.NewService("test-secret", 12*time.Hour)
	sessions := newFakeSessions(5 * time.Minute)
	adminID := uuid.New()

	sessionID, _ := sessions.Create(context.Background(), adminID)
	token, _ := jwtService.GenerateSessionToken(adminID, sessionID)

	handler := SessionAuth(jwtService, sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with an expired session")
	}))

	sessions.advance(6 * time.Minute)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(token))

	// The JWT is still within its own validity; liveness is decided by
	// the session store alone
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status %d, want 401", rec.Code)
	}
}

func TestSessionAuthRejectsGarbage(t *testing.T) {
	jwtService := jwt.NewService("test-secret", 12*time.Hour)
	sessions := newFakeSessions(5 * time.Minute)

	handler := SessionAuth(jwtService, sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without credentials")
	}))

	for name, token := range map[string]string{
		"no header":    "",
		"not a jwt":    "garbage-token",
		"wrong secret": mustToken(t, "other-secret"),
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(token))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status %d, want 401", name, rec.Code)
		}
	}
}

func mustToken(t *testing.T, secret string) string {
	t.Helper()
	token, err := jwt.NewService(secret, time.Hour).GenerateSessionToken(uuid.New(), uuid.NewString())
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return token
}
