package audit

import (
	"context"
	"errors"
)

// TeeStore fans a write out to several stores (e.g. postgres for querying
// plus a Kafka publisher for streaming consumers). Reads come from the first
// store. Append attempts every store even when one fails and returns the
// joined errors.
type TeeStore struct {
	stores []Store
}

// NewTee combines stores. Panics if none are given; an audit path with no
// sink is a wiring bug.
func NewTee(stores ...Store) *TeeStore {
	if len(stores) == 0 {
		panic("audit: NewTee requires at least one store")
	}
	return &TeeStore{stores: stores}
}

func (t *TeeStore) Append(ctx context.Context, event Event) error {
	var errs []error
	for _, s := range t.stores {
		if err := s.Append(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *TeeStore) ListByVerification(ctx context.Context, verificationID string) ([]Event, error) {
	return t.stores[0].ListByVerification(ctx, verificationID)
}

func (t *TeeStore) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	return t.stores[0].ListRecent(ctx, limit)
}
