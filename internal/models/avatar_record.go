package models

import (
	"encoding/base64"
	"time"
)

// Source identifies which provider produced a record.
type Source string

const (
	SourceLive      Source = "live"
	SourceScraper   Source = "scraper"
	SourceGenerator Source = "generator"
	SourceInitials  Source = "initials"
)

// Priority returns the fixed quality rank of a source.
// Higher means better quality.
func (s Source) Priority() int {
	switch s {
	case SourceLive:
		return 10
	case SourceScraper:
		return 9
	case SourceGenerator:
		return 3
	case SourceInitials:
		return 1
	default:
		return 0
	}
}

// AvatarRecord is the resolved avatar for one identity.
// The record store owns its records; callers only ever see clones.
type AvatarRecord struct {
	Identity    string    `json:"identity"`
	DisplayName string    `json:"display_name,omitempty"`
	AvatarURL   string    `json:"avatar_url"`
	ImageBytes  []byte    `json:"image_bytes"`
	ContentType string    `json:"content_type"`
	ContentHash string    `json:"content_hash"`
	Source      Source    `json:"source"`
	Priority    int       `json:"priority"`
	ResolvedAt  time.Time `json:"resolved_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the record is stale at the given instant.
// A record expires exactly at ExpiresAt, not after it.
func (r *AvatarRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Clone returns a deep copy so callers can never mutate stored state.
func (r *AvatarRecord) Clone() *AvatarRecord {
	if r == nil {
		return nil
	}
	cp := *r
	if r.ImageBytes != nil {
		cp.ImageBytes = make([]byte, len(r.ImageBytes))
		copy(cp.ImageBytes, r.ImageBytes)
	}
	return &cp
}

// SizeBytes is the memory accounting estimate used by the record store.
func (r *AvatarRecord) SizeBytes() int {
	return len(r.Identity) + len(r.DisplayName) + len(r.AvatarURL) +
		len(r.ImageBytes) + len(r.ContentType) + len(r.ContentHash)
}

// DataURL re-encodes the payload as an embeddable data URI.
func (r *AvatarRecord) DataURL() string {
	if len(r.ImageBytes) == 0 {
		return ""
	}
	return "data:" + r.ContentType + ";base64," + base64.StdEncoding.EncodeToString(r.ImageBytes)
}

// ImagePayload is a raw provider fetch result before validation.
type ImagePayload struct {
	Bytes       []byte
	ContentType string
	OriginURL   string
}
