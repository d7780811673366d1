// Package newsletter implements newsletter subscription providers.
package newsletter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"promptlab-content-service/internal/domain"
)

// ButtondownName is the provider identifier.
const ButtondownName = "buttondown"

// ButtondownConfig holds the Buttondown API settings.
type ButtondownConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Buttondown implements domain.Subscriber for Buttondown.
type Buttondown struct {
	client *resty.Client
	logger *zap.Logger
}

type subscriberRequest struct {
	EmailAddress string            `json:"email_address"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// buttondownError covers both the legacy {"detail": ...} body and the
// list-of-messages bodies returned for field errors.
type buttondownError struct {
	Detail       string   `json:"detail"`
	Code         string   `json:"code"`
	EmailAddress []string `json:"email_address"`
}

func (e *buttondownError) message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.EmailAddress) > 0 {
		return e.EmailAddress[0]
	}

	return e.Code
}

// NewButtondown creates a new Buttondown client. Subscriptions are not
// retried: a duplicate POST could double-subscribe.
func NewButtondown(cfg ButtondownConfig, logger *zap.Logger) *Buttondown {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", "Token "+cfg.APIKey).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &Buttondown{client: client, logger: logger}
}

// Name returns the provider identifier.
func (b *Buttondown) Name() string {
	return ButtondownName
}

// Subscribe creates a subscriber. A 4xx answer becomes a SubscriptionRejectedError.
func (b *Buttondown) Subscribe(ctx context.Context, sub domain.Subscription) error {
	body := subscriberRequest{EmailAddress: sub.Email}
	if sub.Name != "" {
		body.Metadata = map[string]string{"name": sub.Name}
	}

	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(body).
		SetError(&buttondownError{}).
		Post("/v1/subscribers")
	if err != nil {
		return fmt.Errorf("calling buttondown: %w", err)
	}

	status := resp.StatusCode()
	switch {
	case status >= http.StatusOK && status < http.StatusMultipleChoices:
		return nil
	case status >= http.StatusBadRequest && status < http.StatusInternalServerError:
		rejected := &domain.SubscriptionRejectedError{Status: status}
		if apiErr, ok := resp.Error().(*buttondownError); ok {
			rejected.Detail = apiErr.message()
		}

		return rejected
	default:
		b.logger.Warn("buttondown returned unexpected status", zap.Int("status", status))

		return fmt.Errorf("buttondown returned status %d", status)
	}
}
