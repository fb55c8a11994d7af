package admin

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/velvetnails/velvet-api/internal/pkg/email"
	"github.com/velvetnails/velvet-api/internal/pkg/jwt"
	"github.com/velvetnails/velvet-api/internal/pkg/password"
)

type fakeRepo struct {
	admins map[string]*Admin
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{admins: map[string]*Admin{}}
}

func (r *fakeRepo) add(emailAddr, plainPassword string) *Admin {
	hash, _ := password.Hash(plainPassword)
	a := &Admin{ID: uuid.New(), Email: emailAddr, PasswordHash: hash, CreatedAt: time.Now()}
	r.admins[emailAddr] = a
	return a
}

func (r *fakeRepo) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	return r.admins[email], nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Admin, error) {
	for _, a := range r.admins {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	for _, a := range r.admins {
		if a.ID == id {
			a.PasswordHash = passwordHash
			return nil
		}
	}
	return errors.New("admin not found")
}

// fakeSessions tracks sessions with an injectable clock so idle expiry
// is testable without a real store
type fakeSessions struct {
	now      time.Time
	idleTTL  time.Duration
	deadline map[string]time.Time
	owner    map[string]uuid.UUID
	touches  int
}

func newFakeSessions(idleTTL time.Duration) *fakeSessions {
	return &fakeSessions{
		now:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		idleTTL:  idleTTL,
		deadline: map[string]time.Time{},
		owner:    map[string]uuid.UUID{},
	}
}

func (s *fakeSessions) advance(d time.Duration) { s.now = s.now.Add(d) }

func (s *fakeSessions) Create(ctx context.Context, adminID uuid.UUID) (string, error) {
	id := uuid.NewString()
	s.owner[id] = adminID
	s.deadline[id] = s.now.Add(s.idleTTL)
	return id, nil
}

func (s *fakeSessions) Touch(ctx context.Context, sessionID string) (uuid.UUID, error) {
	s.touches++
	deadline, ok := s.deadline[sessionID]
	if !ok || !s.now.Before(deadline) {
		// Idled-out sessions disappear; a second touch finds nothing new
		delete(s.deadline, sessionID)
		delete(s.owner, sessionID)
		return uuid.Nil, ErrSessionExpired
	}
	s.deadline[sessionID] = s.now.Add(s.idleTTL)
	return s.owner[sessionID], nil
}

func (s *fakeSessions) Delete(ctx context.Context, sessionID string) error {
	delete(s.deadline, sessionID)
	delete(s.owner, sessionID)
	return nil
}

type fakeResets struct {
	allowed bool
	tokens  map[string]uuid.UUID
}

func newFakeResets() *fakeResets {
	return &fakeResets{allowed: true, tokens: map[string]uuid.UUID{}}
}

func (r *fakeResets) Allow(ctx context.Context, email string) (bool, error) {
	return r.allowed, nil
}

func (r *fakeResets) Issue(ctx context.Context, adminID uuid.UUID, token string) error {
	r.tokens[token] = adminID
	return nil
}

func (r *fakeResets) Consume(ctx context.Context, token string) (uuid.UUID, error) {
	id, ok := r.tokens[token]
	if !ok {
		return uuid.Nil, ErrResetTokenUsed
	}
	delete(r.tokens, token)
	return id, nil
}

type fakeSender struct {
	sent []*email.Message
	err  error
}

func (s *fakeSender) Send(ctx context.Context, msg *email.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *fakeSessions, *fakeResets, *fakeSender) {
	t.Helper()
	repo := newFakeRepo()
	sessions := newFakeSessions(5 * time.Minute)
	resets := newFakeResets()
	sender := &fakeSender{}
	jwtService := jwt.NewService("test-secret", 12*time.Hour)
	svc := NewService(repo, sessions, resets, jwtService, sender, "https://studio.example")
	return svc, repo, sessions, resets, sender
}

func TestLoginSuccess(t *testing.T) {
	svc, repo, _, _, _ := newTestService(t)
	repo.add("owner@studio.example", "correct horse battery")

	res, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "Owner@Studio.Example",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token == "" {
		t.Error("no session token issued")
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, repo, _, _, _ := newTestService(t)
	repo.add("owner@studio.example", "correct horse battery")

	_, errWrongPassword := svc.Login(context.Background(), &LoginRequest{
		Email:    "owner@studio.example",
		Password: "wrong password!!",
	})
	_, errNoAccount := svc.Login(context.Background(), &LoginRequest{
		Email:    "stranger@studio.example",
		Password: "whatever password",
	})

	if !errors.Is(errWrongPassword, ErrInvalidCredentials) {
		t.Errorf("wrong password: %v", errWrongPassword)
	}
	if !errors.Is(errNoAccount, ErrInvalidCredentials) {
		t.Errorf("no account: %v", errNoAccount)
	}
	if errWrongPassword.Error() != errNoAccount.Error() {
		t.Error("failure causes distinguishable from error text")
	}
}

func TestLogoutEndsSessionExactlyOnce(t *testing.T) {
	svc, repo, sessions, _, _ := newTestService(t)
	repo.add("owner@studio.example", "correct horse battery")

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "owner@studio.example",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	var sessionID string
	for id := range sessions.owner {
		sessionID = id
	}

	if err := svc.Logout(context.Background(), sessionID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := sessions.Touch(context.Background(), sessionID); !errors.Is(err, ErrSessionExpired) {
		t.Error("session alive after logout")
	}

	// Logging out again finds nothing and stays quiet
	if err := svc.Logout(context.Background(), sessionID); err != nil {
		t.Errorf("second logout: %v", err)
	}
}

func TestIdleExpiryAndActivityRearm(t *testing.T) {
	sessions := newFakeSessions(5 * time.Minute)
	ctx := context.Background()

	id, err := sessions.Create(ctx, uuid.New())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Activity at minute 4 re-arms the deadline
	sessions.advance(4 * time.Minute)
	if _, err := sessions.Touch(ctx, id); err != nil {
		t.Fatalf("touch at 4m: %v", err)
	}

	// Minute 8 is only 4 minutes after the last activity
	sessions.advance(4 * time.Minute)
	if _, err := sessions.Touch(ctx, id); err != nil {
		t.Fatalf("touch at 8m: %v", err)
	}

	// Five idle minutes end the session
	sessions.advance(5 * time.Minute)
	if _, err := sessions.Touch(ctx, id); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected expiry, got %v", err)
	}

	// Expiry already happened; it cannot fire again
	if _, err := sessions.Touch(ctx, id); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("second touch after expiry: %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	svc, repo, _, resets, sender := newTestService(t)
	a := repo.add("owner@studio.example", "old password here")

	if err := svc.RequestPasswordReset(context.Background(), &ResetRequest{Email: "owner@studio.example"}); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}

	var token string
	for tok := range resets.tokens {
		token = tok
	}
	if !strings.Contains(sender.sent[0].Body, token) {
		t.Error("reset email does not carry the token")
	}

	if err := svc.ResetPassword(context.Background(), &ResetConfirmRequest{
		Token:    token,
		Password: "brand new password",
	}); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if !password.Verify("brand new password", repo.admins[a.Email].PasswordHash) {
		t.Error("password not updated")
	}

	// The token is single-use
	if err := svc.ResetPassword(context.Background(), &ResetConfirmRequest{
		Token:    token,
		Password: "another password",
	}); !errors.Is(err, ErrResetTokenUsed) {
		t.Errorf("reused token: %v", err)
	}
}

func TestPasswordResetErrorsAreSpecific(t *testing.T) {
	svc, _, _, resets, _ := newTestService(t)

	err := svc.RequestPasswordReset(context.Background(), &ResetRequest{Email: "not an email"})
	if !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("invalid email: %v", err)
	}

	err = svc.RequestPasswordReset(context.Background(), &ResetRequest{Email: "nobody@studio.example"})
	if !errors.Is(err, ErrNoAccount) {
		t.Errorf("no account: %v", err)
	}

	resets.allowed = false
	err = svc.RequestPasswordReset(context.Background(), &ResetRequest{Email: "nobody@studio.example"})
	if !errors.Is(err, ErrResetRateLimited) {
		t.Errorf("rate limited: %v", err)
	}
}
