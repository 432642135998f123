package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unihelp/internal/ai"
	"unihelp/internal/fallback"
	"unihelp/internal/model"
	"unihelp/internal/session"
)

type chatFixture struct {
	svc       *ChatService
	sessions  *fakeChatSessionStore
	fragments *fakeFragmentStore
	publisher *fakePublisher
	llm       *fakeModelClient
	windows   *session.Store
	sessionID uint
}

func newChatFixture(t *testing.T, llm *fakeModelClient, cfg ai.ChatConfig) *chatFixture {
	t.Helper()

	sessions := newFakeChatSessionStore()
	fragments := newFakeFragmentStore()
	publisher := &fakePublisher{}
	windows := session.NewStore()

	svc := NewChatService(
		sessions,
		&fakeMessageStore{},
		fragments,
		windows,
		nil,
		publisher,
		llm,
		cfg,
		10,
		time.Second,
	)

	created, err := svc.CreateSession(CreateSessionInput{UserID: 1, Title: "help me"})
	require.NoError(t, err)

	return &chatFixture{
		svc:       svc,
		sessions:  sessions,
		fragments: fragments,
		publisher: publisher,
		llm:       llm,
		windows:   windows,
		sessionID: created.ID,
	}
}

func configuredLLM() ai.ChatConfig {
	return ai.ChatConfig{BaseURL: "http://llm.local", APIKey: "sk-test", Model: "test-model"}
}

func TestTurnUsesModelReply(t *testing.T) {
	fx := newChatFixture(t, &fakeModelClient{reply: "model answer"}, configuredLLM())

	reply, err := fx.svc.Turn(context.Background(), 1, fx.sessionID, "when does registration open")
	require.NoError(t, err)
	assert.Equal(t, "model answer", reply)
	assert.Equal(t, 1, fx.llm.calls)

	// Window: system + user + assistant, system first.
	state, ok := fx.windows.Peek(fx.sessionID)
	require.True(t, ok)
	require.Len(t, state.Messages, 3)
	assert.Equal(t, session.RoleSystem, state.Messages[0].Role)
	assert.Equal(t, "model answer", state.Messages[2].Content)

	// Both turn halves went to the async persistence queue.
	require.Len(t, fx.publisher.published, 2)
	assert.Equal(t, session.RoleUser, fx.publisher.published[0].Role)
	assert.Equal(t, session.RoleAssistant, fx.publisher.published[1].Role)
}

func TestTurnFallsBackWhenModelFails(t *testing.T) {
	input := "when does registration open"
	fx := newChatFixture(t, &fakeModelClient{err: errors.New("401 invalid api key")}, configuredLLM())

	reply, err := fx.svc.Turn(context.Background(), 1, fx.sessionID, input)
	require.NoError(t, err)
	assert.Equal(t, fallback.Respond(input), reply)

	state, _ := fx.windows.Peek(fx.sessionID)
	assert.Equal(t, session.RoleAssistant, state.Messages[len(state.Messages)-1].Role)
}

func TestTurnFallsBackWhenNotConfigured(t *testing.T) {
	input := "i forgot my password"
	llm := &fakeModelClient{reply: "should never be used"}
	fx := newChatFixture(t, llm, ai.ChatConfig{BaseURL: "http://llm.local", APIKey: "change-me", Model: "m"})

	reply, err := fx.svc.Turn(context.Background(), 1, fx.sessionID, input)
	require.NoError(t, err)
	assert.Equal(t, fallback.Respond(input), reply)
	assert.Zero(t, llm.calls)
}

func TestTurnAppendsAssistantOnCancellation(t *testing.T) {
	fx := newChatFixture(t, &fakeModelClient{reply: "unused"}, configuredLLM())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reply, err := fx.svc.Turn(ctx, 1, fx.sessionID, "what are the library hours")
	require.NoError(t, err)
	assert.NotEmpty(t, reply)

	// No dangling user message: the fallback reply closed the turn.
	state, _ := fx.windows.Peek(fx.sessionID)
	assert.Equal(t, session.RoleAssistant, state.Messages[len(state.Messages)-1].Role)
}

func TestTurnWindowInvariantOverManyTurns(t *testing.T) {
	fx := newChatFixture(t, &fakeModelClient{reply: "ok"}, configuredLLM())

	for i := 0; i < 12; i++ {
		_, err := fx.svc.Turn(context.Background(), 1, fx.sessionID, fmt.Sprintf("question number %d please", i))
		require.NoError(t, err)

		state, _ := fx.windows.Peek(fx.sessionID)
		assert.LessOrEqual(t, len(state.Messages), 10)
		assert.Equal(t, session.RoleSystem, state.Messages[0].Role)
	}

	state, _ := fx.windows.Peek(fx.sessionID)
	require.Len(t, state.Messages, 10)
	assert.Contains(t, state.Messages[len(state.Messages)-2].Content, "question number 11")
}

func TestTurnReseedsWhenKnowledgeBaseChanges(t *testing.T) {
	fx := newChatFixture(t, &fakeModelClient{reply: "ok"}, configuredLLM())

	for i := 0; i < 3; i++ {
		_, err := fx.svc.Turn(context.Background(), 1, fx.sessionID, fmt.Sprintf("question number %d please", i))
		require.NoError(t, err)
	}
	state, _ := fx.windows.Peek(fx.sessionID)
	require.Len(t, state.Messages, 7)

	require.NoError(t, fx.fragments.Create(&model.KnowledgeFragment{Title: "Library hours", Content: "Open weekdays 8-20."}))

	_, err := fx.svc.Turn(context.Background(), 1, fx.sessionID, "anything new to tell me")
	require.NoError(t, err)

	// Prior turns were dropped; the new system message carries the fragment.
	state, _ = fx.windows.Peek(fx.sessionID)
	require.Len(t, state.Messages, 3)
	assert.Contains(t, state.Messages[0].Content, "Open weekdays 8-20.")
}

func TestTurnValidation(t *testing.T) {
	fx := newChatFixture(t, &fakeModelClient{reply: "ok"}, configuredLLM())

	_, err := fx.svc.Turn(context.Background(), 1, fx.sessionID, "   ")
	assert.ErrorIs(t, err, ErrMessageEmpty)

	_, err = fx.svc.Turn(context.Background(), 1, 999, "hello there")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Another user's session is indistinguishable from a missing one.
	_, err = fx.svc.Turn(context.Background(), 2, fx.sessionID, "hello there")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteSessionDropsWindow(t *testing.T) {
	fx := newChatFixture(t, &fakeModelClient{reply: "ok"}, configuredLLM())

	_, err := fx.svc.Turn(context.Background(), 1, fx.sessionID, "hello there friend")
	require.NoError(t, err)

	require.NoError(t, fx.svc.DeleteSession(1, fx.sessionID))
	_, ok := fx.windows.Peek(fx.sessionID)
	assert.False(t, ok)

	err = fx.svc.DeleteSession(1, fx.sessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
