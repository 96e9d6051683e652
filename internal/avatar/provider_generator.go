package avatar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"avatard/internal/models"
	"avatard/internal/providers"
	"avatard/internal/structures"
)

// defaultGeneratorServices produce a deterministic image for a given seed.
// Tried in order until one succeeds.
var defaultGeneratorServices = []string{
	"https://api.dicebear.com/7.x/adventurer/svg?seed=%s",
	"https://api.dicebear.com/7.x/personas/svg?seed=%s",
	"https://api.dicebear.com/7.x/identicon/svg?seed=%s",
	"https://source.boringavatars.com/beam/120/%s?colors=264653,2a9d8f,e9c46a,f4a261,e76f51",
}

// GeneratorProvider calls third-party deterministic avatar services keyed by
// identity. The same identity always yields the same image from a service.
type GeneratorProvider struct {
	client   *http.Client
	logger   providers.Logger
	services []string
	timeout  time.Duration
	maxBytes int
}

func NewGeneratorProvider(conf *structures.Config, logger providers.Logger) *GeneratorProvider {
	maxBytes := conf.Validation.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &GeneratorProvider{
		client:   &http.Client{},
		logger:   logger,
		services: defaultGeneratorServices,
		timeout:  conf.Providers.GeneratorTimeout,
		maxBytes: maxBytes,
	}
}

func (p *GeneratorProvider) Source() models.Source { return models.SourceGenerator }

func (p *GeneratorProvider) Timeout() time.Duration { return p.timeout }

func (p *GeneratorProvider) Fetch(ctx context.Context, req FetchRequest) (*models.ImagePayload, error) {
	var lastErr error
	for _, service := range p.services {
		serviceURL := fmt.Sprintf(service, url.QueryEscape(req.Identity))

		payload, err := downloadImage(ctx, p.client, serviceURL, p.maxBytes)
		if err != nil {
			lastErr = err
			p.logger.Debugf(providers.TypeResolve, "generator service failed for %s: %s", req.Identity, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		return payload, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("%w: no generator services configured", ErrFetchFailed)
	}
	return nil, lastErr
}
