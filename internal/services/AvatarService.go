package services

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"avatard/internal/avatar"
	"avatard/internal/models"
	"avatard/internal/providers"
	"avatard/internal/structures"
)

type AvatarServiceInterface interface {
	Resolve(ctx context.Context, identity, displayName, liveAvatarURL string) *models.AvatarRecord
	Revalidate(ctx context.Context, identity string) bool
	RevalidateAll(ctx context.Context, identities []string) map[string]bool
	ClearExpired() int
	StoreStats() models.StoreStats
	HealthStats() map[string]models.HealthStat
}

// AvatarService coordinates the record store, the single-flight registry and
// the provider fallback chain. Resolve never fails: the chain ends in the
// initials provider, which is pure computation.
type AvatarService struct {
	conf      *structures.Config
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	store     *avatar.RecordStore
	validator *avatar.Validator
	health    *avatar.HealthTracker
	chain     []avatar.Provider
	flight    singleflight.Group
}

func NewAvatarService(
	conf *structures.Config,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
	store *avatar.RecordStore,
	validator *avatar.Validator,
	health *avatar.HealthTracker,
	chain []avatar.Provider,
) AvatarServiceInterface {
	return &AvatarService{
		conf:      conf,
		logger:    logger,
		metrics:   metrics,
		store:     store,
		validator: validator,
		health:    health,
		chain:     chain,
	}
}

// NewProviderChain builds the default fallback chain in priority order.
func NewProviderChain(conf *structures.Config, logger providers.Logger) []avatar.Provider {
	return []avatar.Provider{
		avatar.NewLiveProvider(conf),
		avatar.NewScraperProvider(conf, logger),
		avatar.NewGeneratorProvider(conf, logger),
		avatar.NewInitialsProvider(),
	}
}

// Resolve returns the avatar record for an identity. Cache hits short-circuit
// everything; concurrent misses for the same identity share one fetch.
func (s *AvatarService) Resolve(ctx context.Context, identity, displayName, liveAvatarURL string) *models.AvatarRecord {
	start := time.Now()
	defer func() {
		s.metrics.ObserveResolveDuration(time.Since(start))
	}()

	if record, ok := s.store.Get(identity); ok {
		s.metrics.IncRecordCacheHit()
		s.logger.Debugf(providers.TypeResolve, "cache hit for %s (source: %s)", identity, record.Source)
		return record
	}
	s.metrics.IncRecordCacheMiss()

	req := avatar.FetchRequest{
		Identity:      identity,
		DisplayName:   displayName,
		LiveAvatarURL: liveAvatarURL,
	}

	// The chain is detached from the inbound request: a caller that hangs up
	// must not make the shared fetch fail through to initials and cache that
	// for everyone. Provider timeouts still bound each attempt.
	v, _, shared := s.flight.Do(identity, func() (interface{}, error) {
		return s.runChain(context.WithoutCancel(ctx), req, false), nil
	})
	if shared {
		s.metrics.IncResolutionShared()
	}

	// Each caller gets its own copy so nobody can mutate a shared record.
	return v.(*models.AvatarRecord).Clone()
}

// Revalidate re-runs the provider chain for one identity, bypassing the
// cache-hit short circuit. The live provider is skipped: there is no
// stream-supplied hint in the background. Reports whether a source better
// than initials produced the record.
func (s *AvatarService) Revalidate(ctx context.Context, identity string) bool {
	displayName := ""
	if current, ok := s.store.Peek(identity); ok {
		displayName = current.DisplayName
	}

	req := avatar.FetchRequest{Identity: identity, DisplayName: displayName}
	record := s.runChain(ctx, req, true)

	ok := record.Source != models.SourceInitials
	s.logger.Infof(providers.TypeRevalidate, "revalidated %s via %s (ok=%t)", identity, record.Source, ok)
	return ok
}

// RevalidateAll revalidates a list of identities and reports per-identity
// success. A cancelled context marks the remaining identities failed.
func (s *AvatarService) RevalidateAll(ctx context.Context, identities []string) map[string]bool {
	results := make(map[string]bool, len(identities))
	for _, identity := range identities {
		if ctx.Err() != nil {
			results[identity] = false
			continue
		}
		results[identity] = s.Revalidate(ctx, identity)
	}
	return results
}

func (s *AvatarService) ClearExpired() int {
	return s.store.ClearExpired()
}

func (s *AvatarService) StoreStats() models.StoreStats {
	return s.store.Stats()
}

func (s *AvatarService) HealthStats() map[string]models.HealthStat {
	return s.health.Snapshot()
}

// runChain walks the providers in priority order and returns the first
// validated result. Provider failures are expected, local outcomes: they are
// logged, counted, and the chain moves on. The initials provider guarantees
// termination.
func (s *AvatarService) runChain(ctx context.Context, req avatar.FetchRequest, skipLive bool) *models.AvatarRecord {
	for _, provider := range s.chain {
		source := provider.Source()

		if source == models.SourceLive && (skipLive || req.LiveAvatarURL == "") {
			// Not applicable rather than failing: don't attempt, don't count.
			continue
		}

		s.health.RecordAttempt(source)
		s.metrics.IncProviderAttempt(string(source))

		payload, err := s.fetchWithTimeout(ctx, provider, req)
		if err == nil {
			err = s.validator.Validate(payload.Bytes, payload.ContentType)
		}
		if err != nil {
			s.health.RecordFailure(source)
			s.metrics.IncProviderFailure(string(source))
			s.logger.Debugf(providers.TypeResolve, "provider %s failed for %s: %s", source, req.Identity, err)
			continue
		}

		s.health.RecordSuccess(source)
		s.metrics.IncProviderSuccess(string(source))
		s.metrics.IncResolution(string(source))

		record := s.buildRecord(req, source, payload)
		s.store.Put(record)
		s.logger.Infof(providers.TypeResolve, "resolved %s via %s", req.Identity, source)
		return record
	}

	// The chain ends in the initials provider, which cannot fail. Reaching
	// this point is a programming error, not a runtime condition.
	panic("avatar: provider chain exhausted without a result")
}

func (s *AvatarService) fetchWithTimeout(ctx context.Context, provider avatar.Provider, req avatar.FetchRequest) (*models.ImagePayload, error) {
	if timeout := provider.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return provider.Fetch(ctx, req)
}

// buildRecord assembles the stored record. When the content hash matches the
// previous fetch the original resolved_at is kept (the image did not change),
// but the TTL is always extended from now.
func (s *AvatarService) buildRecord(req avatar.FetchRequest, source models.Source, payload *models.ImagePayload) *models.AvatarRecord {
	now := time.Now()
	hash := avatar.HashImage(payload.Bytes)

	resolvedAt := now
	if previous, ok := s.store.Peek(req.Identity); ok && previous.ContentHash == hash {
		resolvedAt = previous.ResolvedAt
	}

	return &models.AvatarRecord{
		Identity:    req.Identity,
		DisplayName: req.DisplayName,
		AvatarURL:   payload.OriginURL,
		ImageBytes:  payload.Bytes,
		ContentType: payload.ContentType,
		ContentHash: hash,
		Source:      source,
		Priority:    source.Priority(),
		ResolvedAt:  resolvedAt,
		ExpiresAt:   now.Add(s.ttlFor(source)),
	}
}

func (s *AvatarService) ttlFor(source models.Source) time.Duration {
	switch source {
	case models.SourceLive:
		return s.conf.TTL.Live
	case models.SourceScraper:
		return s.conf.TTL.Scraper
	case models.SourceGenerator:
		return s.conf.TTL.Generator
	default:
		return s.conf.TTL.Initials
	}
}
