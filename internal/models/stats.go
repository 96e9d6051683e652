package models

import "time"

// StoreStats is a point-in-time view of the record store.
type StoreStats struct {
	Entries     int            `json:"entries"`
	Expired     int            `json:"expired"`
	BySource    map[string]int `json:"by_source"`
	MemoryBytes int            `json:"memory_bytes"`
	Hits        uint64         `json:"hits"`
	Misses      uint64         `json:"misses"`
	HitRate     float64        `json:"hit_rate"`
	Evictions   uint64         `json:"evictions"`
}

// HealthStat is the rolling success/failure view of one provider.
type HealthStat struct {
	Attempts      uint64    `json:"attempts"`
	Successes     uint64    `json:"successes"`
	SuccessRate   float64   `json:"success_rate"`
	LastSuccessAt time.Time `json:"last_success_at,omitempty"`
	LastFailureAt time.Time `json:"last_failure_at,omitempty"`
}
