package audit

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Emitter decouples audit emission from persistence. Emit never blocks the
// caller: events land in a bounded inbox and a background worker appends them
// to the store. When the inbox is full the event is dropped and counted;
// audit durability is the store's concern, not the verification path's.
type Emitter struct {
	store  Store
	inbox  chan Event
	logger *slog.Logger

	dropped atomic.Uint64
}

// NewEmitter creates an emitter with the given inbox capacity.
func NewEmitter(store Store, buffer int, logger *slog.Logger) *Emitter {
	if buffer <= 0 {
		buffer = 1024
	}
	return &Emitter{
		store:  store,
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

// Emit enqueues an event without blocking. Returns false if the inbox was
// full and the event was dropped.
func (e *Emitter) Emit(event Event) bool {
	select {
	case e.inbox <- event:
		return true
	default:
		e.dropped.Add(1)
		return false
	}
}

// Dropped reports how many events were discarded due to a full inbox.
func (e *Emitter) Dropped() uint64 {
	return e.dropped.Load()
}

// Run drains the inbox until ctx is done. Store failures are logged and the
// event is abandoned; the engine's contract is best-effort delivery.
func (e *Emitter) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-e.inbox:
			if err := e.store.Append(ctx, event); err != nil && e.logger != nil {
				e.logger.ErrorContext(ctx, "audit append failed",
					"action", event.Action,
					"verification_id", event.VerificationID,
					"error", err,
				)
			}
		}
	}
}
