package admin

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/velvetnails/velvet-api/internal/pkg/email"
	"github.com/velvetnails/velvet-api/internal/pkg/jwt"
	"github.com/velvetnails/velvet-api/internal/pkg/password"
)

// Service handles admin authentication
type Service struct {
	repo       Repository
	sessions   SessionStore
	resets     ResetStore
	jwtService *jwt.Service
	sender     email.Sender
	resetBase  string
}

// NewService creates admin service
func NewService(repo Repository, sessions SessionStore, resets ResetStore, jwtService *jwt.Service, sender email.Sender, resetBase string) *Service {
	return &Service{
		repo:       repo,
		sessions:   sessions,
		resets:     resets,
		jwtService: jwtService,
		sender:     sender,
		resetBase:  resetBase,
	}
}

// Login verifies credentials and opens a session. Every failure cause
// collapses into ErrInvalidCredentials so the response cannot be used
// to probe which emails have accounts.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	a, err := s.repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if a == nil {
		// Burn comparable time so absent accounts are not distinguishable
		password.Verify(req.Password, "$2a$12$000000000000000000000uGyUvPzXZpcDR8rlKUMiV5uv0q8y2tPO")
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, a.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	sessionID, err := s.sessions.Create(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	token, err := s.jwtService.GenerateSessionToken(a.ID, sessionID)
	if err != nil {
		// Session without a token is unreachable; drop it
		_ = s.sessions.Delete(ctx, sessionID)
		return nil, err
	}

	log.Info().Str("admin_id", a.ID.String()).Msg("Admin logged in")

	return &LoginResponse{Token: token, Email: a.Email}, nil
}

// Logout tears the session down. The token the client still holds is
// worthless afterwards; session liveness lives server-side only.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// RequestPasswordReset issues a single-use reset token by email.
// Unlike login, the error codes here are intentionally specific.
func (s *Service) RequestPasswordReset(ctx context.Context, req *ResetRequest) error {
	addr := normalizeEmail(req.Email)
	if _, err := mail.ParseAddress(addr); err != nil {
		return ErrInvalidEmail
	}

	allowed, err := s.resets.Allow(ctx, addr)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrResetRateLimited
	}

	a, err := s.repo.GetByEmail(ctx, addr)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrNoAccount
	}

	token, err := jwt.GenerateOpaqueToken()
	if err != nil {
		return err
	}
	if err := s.resets.Issue(ctx, a.ID, token); err != nil {
		return err
	}

	msg := &email.Message{
		To:      a.Email,
		Subject: "Reset your password",
		Body:    fmt.Sprintf("Open %s/reset?token=%s to choose a new password. The link works once and expires in an hour.", s.resetBase, token),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ResetPassword redeems a token and sets the new password. All live
// sessions stay untouched; the idle timeout retires them naturally.
func (s *Service) ResetPassword(ctx context.Context, req *ResetConfirmRequest) error {
	adminID, err := s.resets.Consume(ctx, req.Token)
	if err != nil {
		return err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, adminID, hash)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
