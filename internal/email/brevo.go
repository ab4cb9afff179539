package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spec-kit/tryon-service/internal/config"
)

// BrevoSender delivers mail through the Brevo transactional API.
type BrevoSender struct {
	cfg  config.EmailConfig
	http *http.Client
}

// NewBrevoSender builds the API-backed sender.
func NewBrevoSender(cfg config.EmailConfig) *BrevoSender {
	return &BrevoSender{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

type brevoParty struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoPayload struct {
	Sender      brevoParty   `json:"sender"`
	To          []brevoParty `json:"to"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent"`
	TextContent string       `json:"textContent,omitempty"`
}

// Send posts one message to the Brevo SMTP email endpoint.
func (s *BrevoSender) Send(ctx context.Context, msg Message) error {
	payload := brevoPayload{
		Sender:      brevoParty{Name: s.cfg.FromName, Email: s.cfg.FromAddress},
		To:          []brevoParty{{Name: msg.ToName, Email: msg.ToEmail}},
		Subject:     msg.Subject,
		HTMLContent: msg.HTMLContent,
		TextContent: msg.TextContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BrevoAPIURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", s.cfg.BrevoAPIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: %s", resp.Status)
	}
	return nil
}
