package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Sender forwards a message to the external mail relay.
// Success or failure is binary; the relay offers no retry contract.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Message represents one outbound email
type Message struct {
	To      string
	Subject string
	Body    string

	// Reply-to details of the person who submitted the form
	FromName  string
	FromEmail string
}

// RelayConfig holds mail relay configuration
type RelayConfig struct {
	URL    string
	APIKey string
}

// RelayClient sends messages via a generic HTTP mail relay
type RelayClient struct {
	config     RelayConfig
	httpClient *http.Client
}

// NewRelayClient creates a new relay client
func NewRelayClient(config RelayConfig) *RelayClient {
	return &RelayClient{
		config: config,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type relayRequest struct {
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`
}

// Send posts the message to the relay as a single JSON payload
func (c *RelayClient) Send(ctx context.Context, msg *Message) error {
	if c.config.URL == "" {
		return fmt.Errorf("mail relay not configured")
	}

	payload, err := json.Marshal(relayRequest{
		To:        msg.To,
		Subject:   msg.Subject,
		Body:      msg.Body,
		FromName:  msg.FromName,
		FromEmail: msg.FromEmail,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mail relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail relay returned status %d", resp.StatusCode)
	}

	return nil
}
