package avatar

import (
	"context"
	"errors"
	"time"

	"avatard/internal/models"
)

var (
	// ErrNoLiveHint means the caller supplied no live avatar URL, so the
	// live provider is not applicable at all.
	ErrNoLiveHint = errors.New("no live avatar hint supplied")

	// ErrFetchFailed covers network and parse failures inside a provider.
	ErrFetchFailed = errors.New("provider fetch failed")

	// ErrValidationRejected means a provider produced bytes the validator
	// refused (size or content type).
	ErrValidationRejected = errors.New("payload rejected by validator")
)

// FetchRequest carries the identity being resolved plus optional hints.
type FetchRequest struct {
	Identity    string
	DisplayName string

	// LiveAvatarURL is a stream-supplied direct avatar URL. Only the live
	// provider uses it.
	LiveAvatarURL string
}

// Provider is one strategy for producing an avatar image. Fetch must respect
// ctx cancellation; a nil error implies a non-nil payload.
type Provider interface {
	Source() models.Source
	Timeout() time.Duration
	Fetch(ctx context.Context, req FetchRequest) (*models.ImagePayload, error)
}
