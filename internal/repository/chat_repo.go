package repository

import (
	"context"
	"errors"
	"fmt"

	"clinic_booking/internal/model"

	"github.com/jackc/pgx/v5"
)

// ChatRepository defines operations for conversations and messages
type ChatRepository interface {
	FindConversation(ctx context.Context, userID, doctorID string) (*model.Conversation, error)
	FindConversationByID(ctx context.Context, id string) (*model.Conversation, error)
	CreateConversation(ctx context.Context, c *model.Conversation) error
	ListConversations(ctx context.Context, role, actorID string) ([]model.Conversation, error)
	CreateMessage(ctx context.Context, m *model.Message) error
	ListMessages(ctx context.Context, conversationID string, limit int) ([]model.Message, error)
}

type chatRepository struct {
	db DB
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(db DB) ChatRepository {
	return &chatRepository{db: db}
}

const conversationColumns = `id, user_id, doctor_id, created_at, updated_at`

// FindConversation looks up the thread for a (user, doctor) pair. Not found
// is (nil, nil).
func (r *chatRepository) FindConversation(ctx context.Context, userID, doctorID string) (*model.Conversation, error) {
	c := &model.Conversation{}
	err := r.db.QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE user_id = $1 AND doctor_id = $2`,
		userID, doctorID,
	).Scan(&c.ID, &c.UserID, &c.DoctorID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}
	return c, nil
}

func (r *chatRepository) FindConversationByID(ctx context.Context, id string) (*model.Conversation, error) {
	c := &model.Conversation{}
	err := r.db.QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id,
	).Scan(&c.ID, &c.UserID, &c.DoctorID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find conversation by ID: %w", err)
	}
	return c, nil
}

func (r *chatRepository) CreateConversation(ctx context.Context, c *model.Conversation) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO conversations (id, user_id, doctor_id) VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at`,
		c.ID, c.UserID, c.DoctorID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

// ListConversations retrieves an actor's threads, most recently active first.
func (r *chatRepository) ListConversations(ctx context.Context, role, actorID string) ([]model.Conversation, error) {
	column := "user_id"
	if role == model.RoleDoctor {
		column = "doctor_id"
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE `+column+` = $1 ORDER BY updated_at DESC`,
		actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var out []model.Conversation
	for rows.Next() {
		c := model.Conversation{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.DoctorID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation row: %w", err)
		}
		out = append(out, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversation rows: %w", err)
	}
	return out, nil
}

// CreateMessage persists a message and bumps the conversation's updated_at
// inside one transaction.
func (r *chatRepository) CreateMessage(ctx context.Context, m *model.Message) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin message transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO messages (id, conversation_id, sender_id, receiver_id, text)
		 VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		m.ID, m.ConversationID, m.SenderID, m.ReceiverID, m.Text,
	).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE conversations SET updated_at = NOW() WHERE id = $1`, m.ConversationID)
	if err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}

	return tx.Commit(ctx)
}

// ListMessages retrieves a conversation's history in send order. Callers
// bound the size via limit; limit <= 0 means no bound.
func (r *chatRepository) ListMessages(ctx context.Context, conversationID string, limit int) ([]model.Message, error) {
	sql := `SELECT id, conversation_id, sender_id, receiver_id, text, created_at
	        FROM messages WHERE conversation_id = $1 ORDER BY created_at`
	args := []any{conversationID}
	if limit > 0 {
		sql += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		m := model.Message{}
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.ReceiverID, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		out = append(out, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}
	return out, nil
}
