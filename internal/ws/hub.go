package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

// MembershipFunc reports whether an actor belongs to a conversation. The hub
// consults it before subscribing a client to a room; joining a foreign room
// is rejected.
type MembershipFunc func(ctx context.Context, conversationID, role, actorID string) (bool, error)

// Event is the wire envelope pushed to subscribed clients.
type Event struct {
	Event          string `json:"event"`
	ConversationID string `json:"conversation_id"`
	Data           any    `json:"data"`
}

// Hub tracks connected clients and their room subscriptions, one room per
// conversation.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[*Client]bool
	isMember MembershipFunc
}

// NewHub creates a Hub. The membership check can be attached later with
// SetMembership once the chat service exists.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]bool)}
}

// SetMembership attaches the join-time authorization check.
func (h *Hub) SetMembership(fn MembershipFunc) {
	h.isMember = fn
}

// Publish fans an event out to every client subscribed to the room, in call
// order. Delivery is best effort: a client whose buffer is full is skipped
// and must re-fetch history on its next join.
func (h *Hub) Publish(room, event string, payload any) {
	msg, err := json.Marshal(Event{Event: event, ConversationID: room, Data: payload})
	if err != nil {
		log.Printf("ws: failed to marshal %s event: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[room] {
		select {
		case client.send <- msg:
		default:
			log.Printf("ws: dropping %s event for slow client %s", event, client.actorID)
		}
	}
}

func (h *Hub) subscribe(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
}

func (h *Hub) unsubscribe(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[room], c)
	if len(h.rooms[room]) == 0 {
		delete(h.rooms, room)
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, clients := range h.rooms {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.rooms, room)
		}
	}
}
