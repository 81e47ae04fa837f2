package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/platform/audit"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Append(ctx, audit.Event{
			Action:         fmt.Sprintf("action-%d", i),
			VerificationID: "ver-1",
		}))
	}
	require.NoError(t, store.Append(ctx, audit.Event{
		Action:         "other",
		VerificationID: "ver-2",
	}))

	t.Run("lists by verification in append order", func(t *testing.T) {
		events, err := store.ListByVerification(ctx, "ver-1")
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, "action-0", events[0].Action)
		assert.Equal(t, "action-2", events[2].Action)
	})

	t.Run("unknown verification lists empty", func(t *testing.T) {
		events, err := store.ListByVerification(ctx, "nope")
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("recent returns the newest tail", func(t *testing.T) {
		events, err := store.ListRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "action-2", events[0].Action)
		assert.Equal(t, "other", events[1].Action)
	})

	t.Run("recent limit larger than history returns everything", func(t *testing.T) {
		events, err := store.ListRecent(ctx, 100)
		require.NoError(t, err)
		assert.Len(t, events, 4)
	})

	t.Run("clear empties the store", func(t *testing.T) {
		store.Clear()
		events, err := store.ListRecent(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}
