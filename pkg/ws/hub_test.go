package ws

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	written []interface{}
	err     error
	closed  bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if c.err != nil {
		return c.err
	}
	c.written = append(c.written, v)
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func newTestHub() *Hub {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewHub(log)
}

func TestHubPush(t *testing.T) {
	t.Parallel()

	t.Run("reaches every session of the user", func(t *testing.T) {
		t.Parallel()
		hub := newTestHub()
		phone, laptop := &fakeConn{}, &fakeConn{}
		hub.register("u1", phone)
		hub.register("u1", laptop)

		hub.Push("u1", map[string]string{"type": "like"})

		require.Len(t, phone.written, 1)
		require.Len(t, laptop.written, 1)
		assert.Equal(t, phone.written[0], laptop.written[0])
	})

	t.Run("offline user drops silently", func(t *testing.T) {
		t.Parallel()
		hub := newTestHub()
		other := &fakeConn{}
		hub.register("u2", other)

		hub.Push("u1", "hello")

		assert.Empty(t, other.written, "push goes only to the addressed user")
	})

	t.Run("write error does not stop other sessions", func(t *testing.T) {
		t.Parallel()
		hub := newTestHub()
		broken := &fakeConn{err: errors.New("broken pipe")}
		healthy := &fakeConn{}
		hub.register("u1", broken)
		hub.register("u1", healthy)

		hub.Push("u1", "update")

		assert.Len(t, healthy.written, 1)
	})
}

func TestHubSessions(t *testing.T) {
	t.Parallel()

	t.Run("unregistered session receives nothing", func(t *testing.T) {
		t.Parallel()
		hub := newTestHub()
		conn := &fakeConn{}
		hub.register("u1", conn)
		hub.unregister("u1", conn)

		hub.Push("u1", "late")

		assert.Empty(t, conn.written)
		assert.False(t, hub.Online("u1"))
	})

	t.Run("online tracks remaining sessions", func(t *testing.T) {
		t.Parallel()
		hub := newTestHub()
		phone, laptop := &fakeConn{}, &fakeConn{}
		hub.register("u1", phone)
		hub.register("u1", laptop)

		assert.True(t, hub.Online("u1"))

		hub.unregister("u1", phone)
		assert.True(t, hub.Online("u1"), "one session left")

		hub.unregister("u1", laptop)
		assert.False(t, hub.Online("u1"))
	})

	t.Run("unknown user is offline", func(t *testing.T) {
		t.Parallel()
		assert.False(t, newTestHub().Online("ghost"))
	})
}
