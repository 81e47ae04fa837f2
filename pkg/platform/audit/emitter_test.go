package audit_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/platform/audit"
	auditmemory "github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/platform/audit/store/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func event(verificationID, action string) audit.Event {
	return audit.Event{
		Timestamp:      time.Now(),
		Action:         action,
		Component:      "verification-engine",
		VerificationID: verificationID,
	}
}

func TestEmitterDeliversToStore(t *testing.T) {
	store := auditmemory.NewInMemoryStore()
	emitter := audit.NewEmitter(store, 16, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go emitter.Run(ctx)

	require.True(t, emitter.Emit(event("ver-1", "verification_started")))
	require.True(t, emitter.Emit(event("ver-1", "verification_completed")))

	require.Eventually(t, func() bool {
		events, err := store.ListByVerification(context.Background(), "ver-1")
		return err == nil && len(events) == 2
	}, 2*time.Second, 10*time.Millisecond)

	events, err := store.ListByVerification(context.Background(), "ver-1")
	require.NoError(t, err)
	assert.Equal(t, "verification_started", events[0].Action)
	assert.Equal(t, "verification_completed", events[1].Action)
	assert.Zero(t, emitter.Dropped())
}

func TestEmitterDropsWhenInboxFull(t *testing.T) {
	// No worker running: the inbox fills and overflow is dropped, not blocked.
	emitter := audit.NewEmitter(auditmemory.NewInMemoryStore(), 1, testLogger())

	assert.True(t, emitter.Emit(event("ver-1", "a")))
	assert.False(t, emitter.Emit(event("ver-1", "b")))
	assert.False(t, emitter.Emit(event("ver-1", "c")))
	assert.Equal(t, uint64(2), emitter.Dropped())
}

func TestTeeStoreFansOut(t *testing.T) {
	ctx := context.Background()
	first := auditmemory.NewInMemoryStore()
	second := auditmemory.NewInMemoryStore()
	tee := audit.NewTee(first, second)

	require.NoError(t, tee.Append(ctx, event("ver-1", "verification_started")))

	for _, store := range []*auditmemory.InMemoryStore{first, second} {
		events, err := store.ListByVerification(ctx, "ver-1")
		require.NoError(t, err)
		assert.Len(t, events, 1)
	}

	// Reads delegate to the first store.
	recent, err := tee.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestNewTeePanicsWithoutStores(t *testing.T) {
	assert.Panics(t, func() { audit.NewTee() })
}
