package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(role, actorID string, buffer int) *Client {
	return &Client{role: role, actorID: actorID, send: make(chan []byte, buffer)}
}

func drain(t *testing.T, c *Client) []Event {
	t.Helper()
	var out []Event
	for {
		select {
		case raw := <-c.send:
			var ev Event
			require.NoError(t, json.Unmarshal(raw, &ev))
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestHub_PublishReachesSubscribers(t *testing.T) {
	hub := NewHub()
	a := newTestClient("user", "user-1", 8)
	b := newTestClient("doctor", "doc-1", 8)
	outsider := newTestClient("user", "user-2", 8)

	hub.subscribe("conv-1", a)
	hub.subscribe("conv-1", b)
	hub.subscribe("conv-2", outsider)

	hub.Publish("conv-1", "new_message", map[string]string{"text": "hello"})

	for _, c := range []*Client{a, b} {
		events := drain(t, c)
		require.Len(t, events, 1)
		assert.Equal(t, "new_message", events[0].Event)
		assert.Equal(t, "conv-1", events[0].ConversationID)
	}
	assert.Empty(t, drain(t, outsider))
}

func TestHub_PublishPreservesOrder(t *testing.T) {
	hub := NewHub()
	c := newTestClient("user", "user-1", 8)
	hub.subscribe("conv-1", c)

	hub.Publish("conv-1", "new_message", "first")
	hub.Publish("conv-1", "new_message", "second")
	hub.Publish("conv-1", "new_message", "third")

	events := drain(t, c)
	require.Len(t, events, 3)
	assert.Equal(t, "first", events[0].Data)
	assert.Equal(t, "second", events[1].Data)
	assert.Equal(t, "third", events[2].Data)
}

func TestHub_SlowClientIsSkipped(t *testing.T) {
	hub := NewHub()
	slow := newTestClient("user", "user-1", 1)
	fast := newTestClient("doctor", "doc-1", 8)
	hub.subscribe("conv-1", slow)
	hub.subscribe("conv-1", fast)

	hub.Publish("conv-1", "new_message", "first")
	hub.Publish("conv-1", "new_message", "second") // slow client's buffer is full

	assert.Len(t, drain(t, slow), 1)
	assert.Len(t, drain(t, fast), 2)
}

func TestHub_UnsubscribeAndRemove(t *testing.T) {
	hub := NewHub()
	c := newTestClient("user", "user-1", 8)
	hub.subscribe("conv-1", c)
	hub.subscribe("conv-2", c)

	hub.unsubscribe("conv-1", c)
	hub.Publish("conv-1", "new_message", "gone")
	hub.Publish("conv-2", "new_message", "still here")
	require.Len(t, drain(t, c), 1)

	// remove drops the client from every room it is still in
	hub.remove(c)
	hub.Publish("conv-2", "new_message", "after remove")
	assert.Empty(t, drain(t, c))

	// empty rooms are garbage collected
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	assert.Empty(t, hub.rooms)
}

func TestClient_JoinAuthorization(t *testing.T) {
	hub := NewHub()
	hub.SetMembership(func(_ context.Context, conversationID, role, actorID string) (bool, error) {
		return conversationID == "conv-1" && role == "user" && actorID == "user-1", nil
	})

	member := newTestClient("user", "user-1", 8)
	member.hub = hub
	member.join("conv-1")

	events := drain(t, member)
	require.Len(t, events, 1)
	assert.Equal(t, "joined", events[0].Event)

	hub.Publish("conv-1", "new_message", "hello")
	require.Len(t, drain(t, member), 1)

	// a non-member is rejected and never subscribed
	stranger := newTestClient("user", "user-2", 8)
	stranger.hub = hub
	stranger.join("conv-1")

	events = drain(t, stranger)
	require.Len(t, events, 1)
	assert.Equal(t, "join_rejected", events[0].Event)

	hub.Publish("conv-1", "new_message", "members only")
	assert.Len(t, drain(t, member), 1)
	assert.Empty(t, drain(t, stranger))
}

func TestClient_JoinWithFullBufferDoesNotBlock(t *testing.T) {
	hub := NewHub()
	hub.SetMembership(func(_ context.Context, _, _, _ string) (bool, error) {
		return true, nil
	})

	// a client whose send buffer is already full must not wedge the read loop
	c := newTestClient("user", "user-1", 1)
	c.hub = hub
	c.send <- []byte(`{"event":"stale"}`)

	done := make(chan struct{})
	go func() {
		c.join("conv-1")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("join blocked on a full send buffer")
	}

	// the subscription still happened; only the ack was dropped
	hub.mu.RLock()
	subscribed := hub.rooms["conv-1"][c]
	hub.mu.RUnlock()
	assert.True(t, subscribed)
}
