package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

var ErrNotConfigured = errors.New("email service not configured")

type Message struct {
	FromName  string
	FromEmail string
	Subject   string
	Body      string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Config struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
	RatePerSec float64
	Burst      int
}

// EmailJS posts template sends to the EmailJS REST API. Sends are paced by a
// shared limiter so a burst of form submissions cannot exhaust the account
// quota.
type EmailJS struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
}

func NewEmailJS(cfg Config) *EmailJS {
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &EmailJS{
		cfg:     cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(limit, burst),
	}
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

func (e *EmailJS) Send(ctx context.Context, msg Message) error {
	if e.cfg.ServiceID == "" || e.cfg.TemplateID == "" || e.cfg.PublicKey == "" {
		return ErrNotConfigured
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("mail rate wait: %w", err)
	}

	payload, err := json.Marshal(sendRequest{
		ServiceID:   e.cfg.ServiceID,
		TemplateID:  e.cfg.TemplateID,
		UserID:      e.cfg.PublicKey,
		AccessToken: e.cfg.PrivateKey,
		TemplateParams: map[string]string{
			"from_name":  msg.FromName,
			"from_email": msg.FromEmail,
			"subject":    msg.Subject,
			"message":    msg.Body,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail provider returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}
