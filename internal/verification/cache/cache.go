// Package cache stores computed verification results so identical requests
// inside the TTL window are served without recomputation. Two backends share
// the interface: a process-local map and a Redis delegate. Callers never
// need to know which is active.
package cache

import (
	"context"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/models"
)

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	Size    int     `json:"size"`
	HitRate float64 `json:"hit_rate"`
}

// Cache is the results cache contract. Get returns sentinel.ErrNotFound on a
// miss (including lazy-expired entries); any other error means the backend is
// unavailable and the caller should proceed as if caching were disabled.
type Cache interface {
	Get(ctx context.Context, key string) (*models.VerificationResult, error)
	Set(ctx context.Context, key string, result *models.VerificationResult) error
	Delete(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) error
	Stats() Stats
}

func hitRate(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
