package engine

import (
	"sync"
	"time"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/models"
	audit "github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/platform/audit"
)

// auditTrail accumulates one verification's audit entries. Entries from
// concurrent module goroutines interleave by occurrence time under the lock;
// only the start and completion entries are guaranteed first and last.
type auditTrail struct {
	mu     sync.Mutex
	userID string
	items  []models.AuditEntry
}

func newTrail(userID string) *auditTrail {
	return &auditTrail{userID: userID}
}

func (t *auditTrail) append(action models.AuditAction, details map[string]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, models.AuditEntry{
		Timestamp: time.Now(),
		Action:    action,
		Component: component,
		UserID:    t.userID,
		Details:   details,
	})
}

func (t *auditTrail) entries() []models.AuditEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.AuditEntry(nil), t.items...)
}

// flushTrail hands the trail to the audit emitter, fire-and-forget. Dropped
// events are counted and abandoned; the engine never retries audit delivery.
func (e *Engine) flushTrail(req *models.VerificationRequest, verificationID string, trail *auditTrail) {
	if e.emitter == nil {
		return
	}
	for _, entry := range trail.entries() {
		event := audit.Event{
			Timestamp:      entry.Timestamp,
			Action:         string(entry.Action),
			Component:      entry.Component,
			VerificationID: verificationID,
			UserID:         req.UserID,
			OrganizationID: req.OrganizationID,
			Domain:         string(req.Domain),
			Details:        entry.Details,
		}
		if !e.emitter.Emit(event) {
			e.metrics.IncrementAuditDropped()
		}
	}
}
