// Package audit captures the verification lifecycle for compliance review.
// Events are emitted from the engine, persisted by a store, and never block
// or fail the verification that produced them.
package audit

import (
	"context"
	"time"
)

// Event is one persisted audit record. Keep it transport-agnostic so stores
// and sinks can fan out.
type Event struct {
	Timestamp      time.Time         `json:"timestamp"`
	Action         string            `json:"action"`
	Component      string            `json:"component"`
	VerificationID string            `json:"verification_id"`
	UserID         string            `json:"user_id,omitempty"`
	OrganizationID string            `json:"organization_id,omitempty"`
	Domain         string            `json:"domain,omitempty"`
	Details        map[string]string `json:"details,omitempty"`
}

// Store is an append-only audit sink. Implementations own their durability
// and retry policy; the engine never retries.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByVerification(ctx context.Context, verificationID string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
