package avatar

import (
	"context"
	"net/http"
	"time"

	"avatard/internal/models"
	"avatard/internal/structures"
)

// LiveProvider downloads an avatar from a stream-supplied direct URL.
// It is only applicable when the caller passes a hint; without one the
// orchestrator skips it entirely.
type LiveProvider struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int
}

func NewLiveProvider(conf *structures.Config) *LiveProvider {
	maxBytes := conf.Validation.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &LiveProvider{
		client:   &http.Client{},
		timeout:  conf.Providers.LiveTimeout,
		maxBytes: maxBytes,
	}
}

func (p *LiveProvider) Source() models.Source { return models.SourceLive }

func (p *LiveProvider) Timeout() time.Duration { return p.timeout }

func (p *LiveProvider) Fetch(ctx context.Context, req FetchRequest) (*models.ImagePayload, error) {
	if req.LiveAvatarURL == "" {
		return nil, ErrNoLiveHint
	}
	return downloadImage(ctx, p.client, req.LiveAvatarURL, p.maxBytes)
}
