package notify

import (
	"context"
	"fmt"
	"time"

	"restoran/internal/config"

	"github.com/gofiber/fiber/v2"
)

// SMSSender posts codes to an HTTP SMS gateway as JSON {"to", "message"}.
type SMSSender struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	ttl      time.Duration
}

// NewSMSSender creates an SMSSender for the configured gateway. ttl is the code
// lifetime quoted in the message.
func NewSMSSender(cfg config.SMSConfig, ttl time.Duration) *SMSSender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SMSSender{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		timeout:  timeout,
		ttl:      ttl,
	}
}

// Send texts code to the mobile number to.
func (s *SMSSender) Send(ctx context.Context, to, code string) error {
	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}

	agent := fiber.Post(s.endpoint)
	agent.JSON(fiber.Map{
		"to":      to,
		"message": codeMessage(code, s.ttl),
	})
	if s.apiKey != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+s.apiKey)
	}
	agent.Timeout(timeout)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("sms gateway request failed: %w", errs[0])
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("sms gateway responded %d: %s", status, body)
	}
	return nil
}
