package avatar

import (
	"time"

	"go.uber.org/atomic"

	"avatard/internal/models"
)

type providerHealth struct {
	attempts    atomic.Uint64
	successes   atomic.Uint64
	lastSuccess atomic.Time
	lastFailure atomic.Time
}

// HealthTracker keeps rolling success/failure statistics per provider.
// The source set is fixed at construction so the map itself is read-only
// and only the counters need atomicity.
type HealthTracker struct {
	stats map[models.Source]*providerHealth
}

func NewHealthTracker() *HealthTracker {
	return &HealthTracker{
		stats: map[models.Source]*providerHealth{
			models.SourceLive:      {},
			models.SourceScraper:   {},
			models.SourceGenerator: {},
			models.SourceInitials:  {},
		},
	}
}

func (h *HealthTracker) RecordAttempt(source models.Source) {
	if s, ok := h.stats[source]; ok {
		s.attempts.Inc()
	}
}

func (h *HealthTracker) RecordSuccess(source models.Source) {
	if s, ok := h.stats[source]; ok {
		s.successes.Inc()
		s.lastSuccess.Store(time.Now())
	}
}

func (h *HealthTracker) RecordFailure(source models.Source) {
	if s, ok := h.stats[source]; ok {
		s.lastFailure.Store(time.Now())
	}
}

// Snapshot returns a copy of all per-provider stats keyed by source name.
func (h *HealthTracker) Snapshot() map[string]models.HealthStat {
	out := make(map[string]models.HealthStat, len(h.stats))
	for source, s := range h.stats {
		attempts := s.attempts.Load()
		successes := s.successes.Load()
		rate := 0.0
		if attempts > 0 {
			rate = float64(successes) / float64(attempts)
		}
		out[string(source)] = models.HealthStat{
			Attempts:      attempts,
			Successes:     successes,
			SuccessRate:   rate,
			LastSuccessAt: s.lastSuccess.Load(),
			LastFailureAt: s.lastFailure.Load(),
		}
	}
	return out
}
