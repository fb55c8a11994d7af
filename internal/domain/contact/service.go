package contact

import (
	"context"
	"fmt"

	"github.com/velvetnails/velvet-api/internal/pkg/email"
)

// Service relays contact form submissions to the studio inbox.
// One attempt per submission: it either lands or the visitor is told
// to try again, nothing is queued.
type Service struct {
	sender email.Sender
	to     string
}

// NewService creates contact service
func NewService(sender email.Sender, to string) *Service {
	return &Service{sender: sender, to: to}
}

// Send forwards one submission as a single relay call
func (s *Service) Send(ctx context.Context, req *SendRequest) error {
	msg := &email.Message{
		To:        s.to,
		Subject:   fmt.Sprintf("New inquiry from %s", req.Name),
		Body:      req.Message,
		FromName:  req.Name,
		FromEmail: req.Email,
	}
	return s.sender.Send(ctx, msg)
}
