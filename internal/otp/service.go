package otp

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Sender delivers a code to its recipient over some channel.
type Sender interface {
	Send(ctx context.Context, to, code string) error
}

// DeliveryError reports that the channel rejected the code. The code remains valid.
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver %s code: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Service pairs a Store with the Sender of one channel ("email" or "mobile").
type Service struct {
	channel string
	store   *Store
	sender  Sender
	logger  *zap.SugaredLogger
}

// NewService creates a Service for channel.
func NewService(channel string, store *Store, sender Sender, logger *zap.SugaredLogger) *Service {
	return &Service{
		channel: channel,
		store:   store,
		sender:  sender,
		logger:  logger.With("channel", channel),
	}
}

// Send issues a new code for identifier and delivers it.
func (s *Service) Send(ctx context.Context, identifier string) error {
	code, err := s.store.Issue(identifier)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	if err := s.sender.Send(ctx, identifier, code); err != nil {
		s.logger.Errorw("code delivery failed", "identifier", identifier, "error", err)
		return &DeliveryError{Channel: s.channel, Err: err}
	}

	s.logger.Infow("code sent", "identifier", identifier)
	return nil
}

// Verify checks code against the pending code for identifier, consuming it.
func (s *Service) Verify(identifier, code string) (bool, error) {
	ok, err := s.store.Verify(identifier, code)
	if err != nil {
		s.logger.Infow("code verification rejected", "identifier", identifier, "error", err)
		return false, err
	}
	if !ok {
		s.logger.Infow("code mismatch", "identifier", identifier)
	}
	return ok, nil
}

// Store returns the underlying store.
func (s *Service) Store() *Store {
	return s.store
}
