package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case msg := <-c.Send:
		var e Event
		require.NoError(t, json.Unmarshal(msg, &e))
		return e
	default:
		t.Fatal("no event buffered")
		return Event{}
	}
}

func TestPublishFansOutToUserSessions(t *testing.T) {
	h := NewHub()
	a1 := &Client{UserID: 1, Send: make(chan []byte, 4)}
	a2 := &Client{UserID: 1, Send: make(chan []byte, 4)}
	b := &Client{UserID: 2, Send: make(chan []byte, 4)}
	require.True(t, h.Register(a1))
	require.True(t, h.Register(a2))
	require.True(t, h.Register(b))

	h.Publish(1, "balance_update", map[string]interface{}{"balance": "100"})

	assert.Equal(t, "balance_update", recv(t, a1).Type)
	assert.Equal(t, "balance_update", recv(t, a2).Type)
	assert.Empty(t, b.Send, "other users receive nothing")
}

func TestPublishPreservesPerUserOrder(t *testing.T) {
	h := NewHub()
	c := &Client{UserID: 1, Send: make(chan []byte, 8)}
	require.True(t, h.Register(c))

	h.Publish(1, "balance_update", nil)
	h.Publish(1, "deposit_confirmed", nil)
	h.Publish(1, "balance_update", nil)

	assert.Equal(t, "balance_update", recv(t, c).Type)
	assert.Equal(t, "deposit_confirmed", recv(t, c).Type)
	assert.Equal(t, "balance_update", recv(t, c).Type)
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	h := NewHub()
	c := &Client{UserID: 1, Send: make(chan []byte, 1)}
	require.True(t, h.Register(c))

	// second publish must drop, not block
	h.Publish(1, "balance_update", nil)
	h.Publish(1, "deposit_confirmed", nil)

	assert.Equal(t, "balance_update", recv(t, c).Type)
	assert.Empty(t, c.Send)
}

func TestCloseUnregisters(t *testing.T) {
	h := NewHub()
	c := &Client{UserID: 1, Send: make(chan []byte, 1)}
	require.True(t, h.Register(c))
	assert.Equal(t, 1, h.ClientCount())

	c.Close()
	assert.Equal(t, 0, h.ClientCount())
	h.Publish(1, "balance_update", nil) // no panic on closed client
	c.Close()                           // idempotent
}

func TestDrainStopsRegistrations(t *testing.T) {
	h := NewHub()
	c := &Client{UserID: 1, Send: make(chan []byte, 1)}
	require.True(t, h.Register(c))

	h.Drain()
	assert.Equal(t, 0, h.ClientCount())

	late := &Client{UserID: 2, Send: make(chan []byte, 1)}
	assert.False(t, h.Register(late))
}
