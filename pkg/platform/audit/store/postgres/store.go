package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	audit "github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/platform/audit"
)

// Store persists audit events to the audit_events table. Inserts are
// idempotent on id so a replayed event is ignored rather than duplicated.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the audit_events table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS audit_events (
			id              UUID PRIMARY KEY,
			timestamp       TIMESTAMPTZ NOT NULL,
			action          TEXT NOT NULL,
			component       TEXT NOT NULL,
			verification_id TEXT NOT NULL,
			user_id         TEXT NOT NULL DEFAULT '',
			organization_id TEXT NOT NULL DEFAULT '',
			domain          TEXT NOT NULL DEFAULT '',
			details         JSONB
		);
		CREATE INDEX IF NOT EXISTS audit_events_verification_idx
			ON audit_events (verification_id, timestamp);
	`)
	if err != nil {
		return fmt.Errorf("migrate audit_events: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	var details []byte
	if len(event.Details) > 0 {
		var err error
		details, err = json.Marshal(event.Details)
		if err != nil {
			return fmt.Errorf("marshal audit details: %w", err)
		}
	}

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query := `
		INSERT INTO audit_events (
			id, timestamp, action, component, verification_id,
			user_id, organization_id, domain, details
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.New(),
		ts,
		event.Action,
		event.Component,
		event.VerificationID,
		event.UserID,
		event.OrganizationID,
		event.Domain,
		details,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *Store) ListByVerification(ctx context.Context, verificationID string) ([]audit.Event, error) {
	query := `
		SELECT timestamp, action, component, verification_id,
			   user_id, organization_id, domain, details
		FROM audit_events
		WHERE verification_id = $1
		ORDER BY timestamp ASC
	`
	rows, err := s.db.QueryContext(ctx, query, verificationID)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	query := `
		SELECT timestamp, action, component, verification_id,
			   user_id, organization_id, domain, details
		FROM audit_events
		ORDER BY timestamp DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event
	for rows.Next() {
		var (
			event   audit.Event
			details []byte
		)
		err := rows.Scan(
			&event.Timestamp,
			&event.Action,
			&event.Component,
			&event.VerificationID,
			&event.UserID,
			&event.OrganizationID,
			&event.Domain,
			&details,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &event.Details); err != nil {
				return nil, fmt.Errorf("unmarshal audit details: %w", err)
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
