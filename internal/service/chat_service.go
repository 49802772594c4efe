package service

import (
	"context"
	"errors"

	"clinic_booking/internal/model"
	"clinic_booking/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrBadReceiver          = errors.New("receiver must be the other participant")
)

// defaultHistoryLimit bounds history retrieval when the caller does not.
const defaultHistoryLimit = 200

// Publisher fans an event out to every client subscribed to a room. The
// websocket hub implements it; delivery is best effort, disconnected clients
// re-fetch history on join.
type Publisher interface {
	Publish(room, event string, payload any)
}

// ChatService persists conversations and messages and relays new messages to
// connected clients.
type ChatService interface {
	GetOrCreateConversation(ctx context.Context, userID, doctorID string) (*model.Conversation, error)
	ListConversations(ctx context.Context, role, actorID string) ([]model.Conversation, error)
	SendMessage(ctx context.Context, conversationID, senderRole, senderID string, req model.SendMessageRequest) (*model.Message, error)
	ListMessages(ctx context.Context, conversationID, role, actorID string, limit int) ([]model.Message, error)
	IsMember(ctx context.Context, conversationID, role, actorID string) (bool, error)
}

type chatService struct {
	chatRepo   repository.ChatRepository
	userRepo   repository.UserRepository
	doctorRepo repository.DoctorRepository
	publisher  Publisher
}

// NewChatService creates a new ChatService
func NewChatService(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	publisher Publisher,
) ChatService {
	return &chatService{chatRepo: chatRepo, userRepo: userRepo, doctorRepo: doctorRepo, publisher: publisher}
}

// GetOrCreateConversation resolves the thread for a (user, doctor) pair,
// creating it on first contact. Both participants must exist; otherwise the
// insert would only fail later on the foreign keys.
func (s *chatService) GetOrCreateConversation(ctx context.Context, userID, doctorID string) (*model.Conversation, error) {
	doctor, err := s.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrActorNotFound
	}

	conv, err := s.chatRepo.FindConversation(ctx, userID, doctorID)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}

	conv = &model.Conversation{
		ID:       uuid.New().String(),
		UserID:   userID,
		DoctorID: doctorID,
	}
	if err := s.chatRepo.CreateConversation(ctx, conv); err != nil {
		// a concurrent create may have won on the unique pair
		if existing, findErr := s.chatRepo.FindConversation(ctx, userID, doctorID); findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return conv, nil
}

func (s *chatService) ListConversations(ctx context.Context, role, actorID string) ([]model.Conversation, error) {
	return s.chatRepo.ListConversations(ctx, role, actorID)
}

// SendMessage persists the message and publishes a new_message event to the
// conversation's room. Sender and receiver must both be members.
func (s *chatService) SendMessage(ctx context.Context, conversationID, senderRole, senderID string, req model.SendMessageRequest) (*model.Message, error) {
	conv, err := s.chatRepo.FindConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	if !isMemberOf(conv, senderRole, senderID) {
		return nil, ErrForbidden
	}
	if req.ReceiverID != conv.UserID && req.ReceiverID != conv.DoctorID {
		return nil, ErrForbidden
	}
	if req.ReceiverID == senderID {
		return nil, ErrBadReceiver
	}

	msg := &model.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     req.ReceiverID,
		Text:           req.Text,
	}
	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(conversationID, "new_message", msg)
	}
	return msg, nil
}

// ListMessages returns the conversation history in send order, membership
// checked, size bounded.
func (s *chatService) ListMessages(ctx context.Context, conversationID, role, actorID string, limit int) ([]model.Message, error) {
	conv, err := s.chatRepo.FindConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	if !isMemberOf(conv, role, actorID) {
		return nil, ErrForbidden
	}
	if limit <= 0 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}
	return s.chatRepo.ListMessages(ctx, conversationID, limit)
}

// IsMember reports whether the actor belongs to the conversation. The
// websocket hub calls this before letting a client join a room.
func (s *chatService) IsMember(ctx context.Context, conversationID, role, actorID string) (bool, error) {
	conv, err := s.chatRepo.FindConversationByID(ctx, conversationID)
	if err != nil {
		return false, err
	}
	if conv == nil {
		return false, nil
	}
	return isMemberOf(conv, role, actorID), nil
}

func isMemberOf(conv *model.Conversation, role, actorID string) bool {
	switch role {
	case model.RoleUser:
		return conv.UserID == actorID
	case model.RoleDoctor:
		return conv.DoctorID == actorID
	}
	return false
}
