package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"promptlab-content-service/internal/domain"
	"promptlab-content-service/internal/metrics"
)

// NewsletterService registers newsletter subscriptions.
type NewsletterService struct {
	subscriber domain.Subscriber
	logger     *zap.Logger
}

// NewNewsletterService creates a new NewsletterService. A nil subscriber
// disables subscriptions.
func NewNewsletterService(subscriber domain.Subscriber, logger *zap.Logger) *NewsletterService {
	return &NewsletterService{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Enabled reports whether a provider is configured.
func (s *NewsletterService) Enabled() bool {
	return s.subscriber != nil
}

// Provider returns the configured provider name, or "" when disabled.
func (s *NewsletterService) Provider() string {
	if s.subscriber == nil {
		return ""
	}

	return s.subscriber.Name()
}

// Subscribe normalizes and forwards a subscription to the provider.
func (s *NewsletterService) Subscribe(ctx context.Context, sub domain.Subscription) error {
	if s.subscriber == nil {
		return domain.ErrNewsletterDisabled
	}

	sub.Email = strings.ToLower(strings.TrimSpace(sub.Email))
	sub.Name = strings.TrimSpace(sub.Name)

	err := s.subscriber.Subscribe(ctx, sub)
	metrics.NewsletterSubscriptionsTotal.WithLabelValues(s.subscriber.Name(), metrics.Status(err)).Inc()

	var rejected *domain.SubscriptionRejectedError
	switch {
	case err == nil:
		s.logger.Info("newsletter subscription created", zap.String("provider", s.subscriber.Name()))
	case errors.As(err, &rejected):
		s.logger.Info("newsletter subscription rejected",
			zap.String("provider", s.subscriber.Name()),
			zap.Int("status", rejected.Status),
			zap.String("detail", rejected.Detail),
		)
	default:
		s.logger.Error("newsletter subscription failed",
			zap.String("provider", s.subscriber.Name()),
			zap.Error(err),
		)
	}

	return err
}
