package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable is returned when a content source could not be read.
	ErrSourceUnavailable = errors.New("content source unavailable")

	// ErrNotFound is returned when a requested document does not exist or is not published.
	ErrNotFound = errors.New("content not found")

	// ErrUnsupportedCollection is returned by sources that do not model a collection.
	ErrUnsupportedCollection = errors.New("collection not supported by source")

	// ErrNewsletterDisabled is returned when no newsletter provider is configured.
	ErrNewsletterDisabled = errors.New("newsletter provider not configured")
)

// SubscriptionRejectedError is returned when the newsletter provider refuses a subscriber.
type SubscriptionRejectedError struct {
	Status int
	Detail string
}

func (e *SubscriptionRejectedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("subscription rejected with status %d", e.Status)
	}

	return fmt.Sprintf("subscription rejected: %s", e.Detail)
}
