package service

import (
	"context"
	"testing"
	"time"

	"clinic_booking/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatRepo struct {
	conversations map[string]*model.Conversation
	messages      []model.Message
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{conversations: make(map[string]*model.Conversation)}
}

func (f *fakeChatRepo) FindConversation(_ context.Context, userID, doctorID string) (*model.Conversation, error) {
	for _, c := range f.conversations {
		if c.UserID == userID && c.DoctorID == doctorID {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeChatRepo) FindConversationByID(_ context.Context, id string) (*model.Conversation, error) {
	return f.conversations[id], nil
}

func (f *fakeChatRepo) CreateConversation(_ context.Context, c *model.Conversation) error {
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.conversations[c.ID] = c
	return nil
}

func (f *fakeChatRepo) ListConversations(_ context.Context, role, actorID string) ([]model.Conversation, error) {
	var out []model.Conversation
	for _, c := range f.conversations {
		if (role == model.RoleUser && c.UserID == actorID) ||
			(role == model.RoleDoctor && c.DoctorID == actorID) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) CreateMessage(_ context.Context, m *model.Message) error {
	m.CreatedAt = time.Now()
	f.messages = append(f.messages, *m)
	if c, ok := f.conversations[m.ConversationID]; ok {
		c.UpdatedAt = m.CreatedAt
	}
	return nil
}

func (f *fakeChatRepo) ListMessages(_ context.Context, conversationID string, limit int) ([]model.Message, error) {
	var out []model.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// recordingPublisher captures published events in order.
type recordingPublisher struct {
	rooms    []string
	events   []string
	payloads []any
}

func (p *recordingPublisher) Publish(room, event string, payload any) {
	p.rooms = append(p.rooms, room)
	p.events = append(p.events, event)
	p.payloads = append(p.payloads, payload)
}

func newChatFixture() (ChatService, *fakeChatRepo, *recordingPublisher) {
	repo := newFakeChatRepo()
	userRepo := &fakeUserRepo{users: map[string]*model.User{
		"user-1": {ID: "user-1", Name: "Jane Doe"},
		"user-2": {ID: "user-2", Name: "John Roe"},
	}}
	doctorRepo := &fakeDoctorRepo{doctors: map[string]*model.Doctor{
		"doc-1": {ID: "doc-1", Name: "Dr. Smith", Available: true},
		"doc-2": {ID: "doc-2", Name: "Dr. Jones", Available: true},
	}}
	pub := &recordingPublisher{}
	return NewChatService(repo, userRepo, doctorRepo, pub), repo, pub
}

func TestGetOrCreateConversation(t *testing.T) {
	svc, _, _ := newChatFixture()
	ctx := context.Background()

	conv, err := svc.GetOrCreateConversation(ctx, "user-1", "doc-1")
	require.NoError(t, err)
	require.NotNil(t, conv)

	// second call returns the same thread, not a new one
	again, err := svc.GetOrCreateConversation(ctx, "user-1", "doc-1")
	require.NoError(t, err)
	assert.Equal(t, conv.ID, again.ID)

	other, err := svc.GetOrCreateConversation(ctx, "user-1", "doc-2")
	require.NoError(t, err)
	assert.NotEqual(t, conv.ID, other.ID)
}

func TestGetOrCreateConversation_UnknownCounterpart(t *testing.T) {
	svc, repo, _ := newChatFixture()
	ctx := context.Background()

	// nonexistent participants are caught before anything is written
	_, err := svc.GetOrCreateConversation(ctx, "user-1", "doc-9")
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	_, err = svc.GetOrCreateConversation(ctx, "user-9", "doc-1")
	assert.ErrorIs(t, err, ErrActorNotFound)

	assert.Empty(t, repo.conversations)
}

func TestSendMessage_PublishesInOrder(t *testing.T) {
	svc, _, pub := newChatFixture()
	ctx := context.Background()

	conv, err := svc.GetOrCreateConversation(ctx, "user-1", "doc-1")
	require.NoError(t, err)

	first, err := svc.SendMessage(ctx, conv.ID, model.RoleUser, "user-1",
		model.SendMessageRequest{ReceiverID: "doc-1", Text: "hello"})
	require.NoError(t, err)

	second, err := svc.SendMessage(ctx, conv.ID, model.RoleDoctor, "doc-1",
		model.SendMessageRequest{ReceiverID: "user-1", Text: "hi, how can I help?"})
	require.NoError(t, err)

	require.Len(t, pub.events, 2)
	assert.Equal(t, []string{conv.ID, conv.ID}, pub.rooms)
	assert.Equal(t, []string{"new_message", "new_message"}, pub.events)
	assert.Equal(t, first, pub.payloads[0])
	assert.Equal(t, second, pub.payloads[1])

	history, err := svc.ListMessages(ctx, conv.ID, model.RoleUser, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "hello", history[0].Text)
	assert.Equal(t, "hi, how can I help?", history[1].Text)
}

func TestSendMessage_Membership(t *testing.T) {
	svc, _, pub := newChatFixture()
	ctx := context.Background()

	conv, err := svc.GetOrCreateConversation(ctx, "user-1", "doc-1")
	require.NoError(t, err)

	// an outsider cannot post
	_, err = svc.SendMessage(ctx, conv.ID, model.RoleUser, "user-2",
		model.SendMessageRequest{ReceiverID: "doc-1", Text: "let me in"})
	assert.ErrorIs(t, err, ErrForbidden)

	// the receiver must be a participant
	_, err = svc.SendMessage(ctx, conv.ID, model.RoleUser, "user-1",
		model.SendMessageRequest{ReceiverID: "doc-9", Text: "wrong doctor"})
	assert.ErrorIs(t, err, ErrForbidden)

	// the receiver must be the other participant, not the sender
	_, err = svc.SendMessage(ctx, conv.ID, model.RoleUser, "user-1",
		model.SendMessageRequest{ReceiverID: "user-1", Text: "note to self"})
	assert.ErrorIs(t, err, ErrBadReceiver)

	_, err = svc.SendMessage(ctx, "missing", model.RoleUser, "user-1",
		model.SendMessageRequest{ReceiverID: "doc-1", Text: "hello?"})
	assert.ErrorIs(t, err, ErrConversationNotFound)

	// nothing was relayed
	assert.Empty(t, pub.events)
}

func TestListMessages_MembershipAndBound(t *testing.T) {
	svc, repo, _ := newChatFixture()
	ctx := context.Background()

	conv, err := svc.GetOrCreateConversation(ctx, "user-1", "doc-1")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := svc.SendMessage(ctx, conv.ID, model.RoleUser, "user-1",
			model.SendMessageRequest{ReceiverID: "doc-1", Text: "ping"})
		require.NoError(t, err)
	}

	_, err = svc.ListMessages(ctx, conv.ID, model.RoleUser, "user-2", 0)
	assert.ErrorIs(t, err, ErrForbidden)

	history, err := svc.ListMessages(ctx, conv.ID, model.RoleDoctor, "doc-1", 3)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	// conversation activity bumps updated_at
	assert.True(t, repo.conversations[conv.ID].UpdatedAt.After(repo.conversations[conv.ID].CreatedAt) ||
		repo.conversations[conv.ID].UpdatedAt.Equal(repo.conversations[conv.ID].CreatedAt))
}

func TestIsMember(t *testing.T) {
	svc, _, _ := newChatFixture()
	ctx := context.Background()

	conv, err := svc.GetOrCreateConversation(ctx, "user-1", "doc-1")
	require.NoError(t, err)

	cases := []struct {
		role    string
		actorID string
		want    bool
	}{
		{model.RoleUser, "user-1", true},
		{model.RoleDoctor, "doc-1", true},
		{model.RoleUser, "doc-1", false},
		{model.RoleDoctor, "user-1", false},
		{model.RoleAdmin, "admin-1", false},
	}
	for _, tc := range cases {
		ok, err := svc.IsMember(ctx, conv.ID, tc.role, tc.actorID)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, "%s/%s", tc.role, tc.actorID)
	}

	ok, err := svc.IsMember(ctx, "missing", model.RoleUser, "user-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
