package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingCalls(t *testing.T) {
	t.Parallel()

	t.Run("resolve delivers to the waiter once", func(t *testing.T) {
		t.Parallel()
		pending := newPendingCalls()
		waiter := pending.add("c1")

		require.True(t, pending.resolve("c1", []byte(`{"ok":true}`)))
		assert.Equal(t, []byte(`{"ok":true}`), <-waiter)

		assert.False(t, pending.resolve("c1", []byte(`again`)), "an entry is consumed by its reply")
		assert.Zero(t, pending.size())
	})

	t.Run("reply for unknown id is dropped", func(t *testing.T) {
		t.Parallel()
		pending := newPendingCalls()
		assert.False(t, pending.resolve("never-issued", []byte(`x`)))
	})

	t.Run("remove discards an abandoned call", func(t *testing.T) {
		t.Parallel()
		pending := newPendingCalls()
		pending.add("c1")
		pending.remove("c1")

		assert.Zero(t, pending.size())
		assert.False(t, pending.resolve("c1", []byte(`late`)), "a timed-out call no longer accepts its reply")
	})

	t.Run("clear drops every in-flight call", func(t *testing.T) {
		t.Parallel()
		pending := newPendingCalls()
		pending.add("c1")
		pending.add("c2")
		require.Equal(t, 2, pending.size())

		pending.clear()

		assert.Zero(t, pending.size())
		assert.False(t, pending.resolve("c1", []byte(`x`)))
		assert.False(t, pending.resolve("c2", []byte(`x`)))
	})

	t.Run("concurrent calls do not collide", func(t *testing.T) {
		t.Parallel()
		pending := newPendingCalls()
		w1 := pending.add("c1")
		w2 := pending.add("c2")

		require.True(t, pending.resolve("c2", []byte(`two`)))
		require.True(t, pending.resolve("c1", []byte(`one`)))

		assert.Equal(t, []byte(`one`), <-w1)
		assert.Equal(t, []byte(`two`), <-w2)
	})
}
