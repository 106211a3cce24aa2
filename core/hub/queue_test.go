package hub_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/swimlive/core/hub"
	"github.com/dmitrymomot/swimlive/core/message"
)

func TestQueue(t *testing.T) {
	t.Parallel()

	t.Run("full_queue_never_blocks", func(t *testing.T) {
		t.Parallel()
		q := hub.NewQueue(2)
		require.NoError(t, q.Publish(message.Saved{}))
		require.NoError(t, q.Publish(message.Saved{}))
		assert.ErrorIs(t, q.Publish(message.Saved{}), hub.ErrQueueFull)
		assert.Equal(t, 2, q.Len())
	})

	t.Run("minimum_size", func(t *testing.T) {
		t.Parallel()
		q := hub.NewQueue(0)
		require.NoError(t, q.Publish(message.Saved{}))
		assert.ErrorIs(t, q.Publish(message.Saved{}), hub.ErrQueueFull)
	})

	t.Run("concurrent_producers_lose_nothing", func(t *testing.T) {
		t.Parallel()
		q := hub.NewQueue(1000)
		h := hub.New(q, nil)

		var wg sync.WaitGroup
		for p := range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range 250 {
					assert.NoError(t, q.Publish(message.Disqualification{Lane: p*1000 + i}))
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1000, h.Drain())
		assert.Zero(t, q.Len())
	})
}
