package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"clinic_booking/internal/middleware"
	"clinic_booking/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS policy is enforced at the HTTP layer
	},
}

// Client is one connected websocket peer.
type Client struct {
	hub     *Hub
	role    string
	actorID string
	conn    *websocket.Conn
	send    chan []byte
}

// frame is what clients send us: join/leave a conversation room.
type frame struct {
	Type           string `json:"type"` // "join" or "leave"
	ConversationID string `json:"conversation_id"`
}

type ack struct {
	Event          string `json:"event"`
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message,omitempty"`
}

// ServeWS upgrades an authenticated request to a websocket connection. The
// access token travels in the same httpOnly cookie the REST routes use.
func ServeWS(hub *Hub, jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(middleware.AccessTokenCookie)
		if err != nil || tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "no token provided"})
			return
		}
		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "access token expired"})
				return
			}
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("ws: upgrade failed for %s: %v", claims.ActorID, err)
			return
		}

		client := &Client{
			hub:     hub,
			role:    claims.Role,
			actorID: claims.ActorID,
			conn:    conn,
			send:    make(chan []byte, 64),
		}
		go client.writePump()
		go client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		close(c.send)
		c.conn.Close()
	}()
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			log.Printf("ws: bad frame from %s: %v", c.actorID, err)
			continue
		}

		switch f.Type {
		case "join":
			c.join(f.ConversationID)
		case "leave":
			c.hub.unsubscribe(f.ConversationID, c)
		default:
			log.Printf("ws: unknown frame type %q from %s", f.Type, c.actorID)
		}
	}
}

// join subscribes the client to a conversation room after verifying it is a
// member of that conversation.
func (c *Client) join(conversationID string) {
	if conversationID == "" {
		return
	}
	if c.hub.isMember == nil {
		c.reject(conversationID, "membership check unavailable")
		return
	}
	ok, err := c.hub.isMember(context.Background(), conversationID, c.role, c.actorID)
	if err != nil {
		log.Printf("ws: membership check failed for %s: %v", c.actorID, err)
		c.reject(conversationID, "failed to join conversation")
		return
	}
	if !ok {
		c.reject(conversationID, "not a member of this conversation")
		return
	}

	c.hub.subscribe(conversationID, c)
	c.ack(ack{Event: "joined", ConversationID: conversationID})
}

func (c *Client) reject(conversationID, reason string) {
	c.ack(ack{Event: "join_rejected", ConversationID: conversationID, Message: reason})
}

// ack queues a control message without blocking the read loop; a client that
// cannot drain its own buffer loses the ack like any other event.
func (c *Client) ack(a ack) {
	msg, err := json.Marshal(a)
	if err != nil {
		return
	}
	select {
	case c.send <- msg:
	default:
		log.Printf("ws: dropping %s ack for slow client %s", a.Event, c.actorID)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
