package model

import "time"

// RefreshToken is the server-side record of an actor's refresh token. At most
// one live token exists per (role, actor id); a new login overwrites the
// previous one, implicitly invalidating that session.
type RefreshToken struct {
	ActorRole string    `json:"actor_role"`
	ActorID   string    `json:"actor_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
