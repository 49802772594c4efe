package model

import "time"

// Conversation is a two-party thread between one user and one doctor. The
// (user_id, doctor_id) pair is unique; find-or-create resolves to the same
// conversation for repeat contacts.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	DoctorID  string    `json:"doctor_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message belongs to exactly one conversation and is immutable once created.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required"`
	Text       string `json:"text" binding:"required"`
}
