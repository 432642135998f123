package app

import (
	"context"
	"log"
	"strings"
	"time"

	"unihelp/internal/ai"
	"unihelp/internal/fallback"
	"unihelp/internal/model"
	"unihelp/internal/prompt"
	"unihelp/internal/session"
)

type ChatSessionStore interface {
	Create(chatSession *model.ChatSession) error
	ListByUserID(userID uint) ([]model.ChatSession, error)
	GetByIDAndUserID(sessionID, userID uint) (*model.ChatSession, error)
	DeleteByIDAndUserID(sessionID, userID uint) error
}

type MessageStore interface {
	ListBySessionID(sessionID uint, limit int) ([]model.Message, error)
	DeleteBySessionID(sessionID uint) error
}

type FragmentLister interface {
	ListOrdered() ([]model.KnowledgeFragment, error)
}

type ModelClient interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
}

type AsyncMessagePublisher interface {
	Publish(ctx context.Context, msg model.Message) error
}

// WindowSnapshotter persists conversation windows across restarts. Every
// error is treated as a cache miss.
type WindowSnapshotter interface {
	Get(ctx context.Context, sessionID uint) (session.State, bool, error)
	Set(ctx context.Context, state session.State) error
	Delete(ctx context.Context, sessionID uint) error
}

// ChatService owns a chat turn end to end: seed or re-seed the session with
// the current system instruction, append the user message, obtain a reply
// from the external model or the fallback responder, and append it under the
// window bound.
type ChatService struct {
	sessionRepo  ChatSessionStore
	messageRepo  MessageStore
	fragmentRepo FragmentLister
	windows      *session.Store
	windowCache  WindowSnapshotter
	publisher    AsyncMessagePublisher
	llmClient    ModelClient
	llmConfig    ai.ChatConfig
	maxWindow    int
	replyTimeout time.Duration
}

func NewChatService(
	sessionRepo ChatSessionStore,
	messageRepo MessageStore,
	fragmentRepo FragmentLister,
	windows *session.Store,
	windowCache WindowSnapshotter,
	publisher AsyncMessagePublisher,
	llmClient ModelClient,
	llmConfig ai.ChatConfig,
	maxWindow int,
	replyTimeout time.Duration,
) *ChatService {
	if maxWindow <= 0 {
		maxWindow = session.DefaultMaxWindow
	}
	if replyTimeout <= 0 {
		replyTimeout = 30 * time.Second
	}
	return &ChatService{
		sessionRepo:  sessionRepo,
		messageRepo:  messageRepo,
		fragmentRepo: fragmentRepo,
		windows:      windows,
		windowCache:  windowCache,
		publisher:    publisher,
		llmClient:    llmClient,
		llmConfig:    llmConfig,
		maxWindow:    maxWindow,
		replyTimeout: replyTimeout,
	}
}

type CreateSessionInput struct {
	UserID uint
	Title  string
}

func (s *ChatService) CreateSession(input CreateSessionInput) (*model.ChatSession, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "New Chat"
	}

	chatSession := &model.ChatSession{UserID: input.UserID, Title: title}
	if err := s.sessionRepo.Create(chatSession); err != nil {
		return nil, err
	}
	return chatSession, nil
}

func (s *ChatService) ListSessions(userID uint) ([]model.ChatSession, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.sessionRepo.ListByUserID(userID)
}

func (s *ChatService) DeleteSession(userID, sessionID uint) error {
	if userID == 0 || sessionID == 0 {
		return ErrInvalidInput
	}
	chatSession, err := s.sessionRepo.GetByIDAndUserID(sessionID, userID)
	if err != nil {
		return err
	}
	if chatSession == nil {
		return ErrSessionNotFound
	}
	if err := s.messageRepo.DeleteBySessionID(sessionID); err != nil {
		return err
	}
	if err := s.sessionRepo.DeleteByIDAndUserID(sessionID, userID); err != nil {
		return err
	}
	s.windows.Delete(sessionID)
	if s.windowCache != nil {
		if err := s.windowCache.Delete(context.Background(), sessionID); err != nil {
			log.Printf("delete window snapshot for session %d failed: %v", sessionID, err)
		}
	}
	return nil
}

// Turn runs one chat turn. Turns on the same session are serialized by the
// window store; turns on different sessions run in parallel. The reply is
// never an error for an external-model outage: the fallback responder covers
// timeouts, bad credentials, and a missing configuration alike.
func (s *ChatService) Turn(ctx context.Context, userID, sessionID uint, userText string) (string, error) {
	if userID == 0 || sessionID == 0 {
		return "", ErrInvalidInput
	}
	content := strings.TrimSpace(userText)
	if content == "" {
		return "", ErrMessageEmpty
	}

	chatSession, err := s.sessionRepo.GetByIDAndUserID(sessionID, userID)
	if err != nil {
		return "", err
	}
	if chatSession == nil {
		return "", ErrSessionNotFound
	}

	var reply string
	err = s.windows.Do(sessionID, func(st *session.State) error {
		if len(st.Messages) == 0 && s.windowCache != nil {
			if cached, ok, cacheErr := s.windowCache.Get(ctx, sessionID); cacheErr == nil && ok {
				*st = cached
			}
		}

		fragments, err := s.fragmentRepo.ListOrdered()
		if err != nil {
			return err
		}
		if st.EnsureInstruction(prompt.Fingerprint(fragments), prompt.BuildSystemInstruction(fragments)) {
			log.Printf("session %d re-seeded with current knowledge base", sessionID)
		}

		st.AppendUser(content)
		reply = s.completeOrFallback(ctx, content, st.Messages)
		st.AppendAssistant(reply)
		st.Trim(s.maxWindow)

		if s.windowCache != nil {
			if err := s.windowCache.Set(context.WithoutCancel(ctx), *st); err != nil {
				log.Printf("snapshot window for session %d failed: %v", sessionID, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.persistAsync(ctx, userID, sessionID, session.RoleUser, content)
	s.persistAsync(ctx, userID, sessionID, session.RoleAssistant, reply)
	return reply, nil
}

func (s *ChatService) GetHistory(userID, sessionID uint, limit int) ([]model.Message, error) {
	if userID == 0 || sessionID == 0 {
		return nil, ErrInvalidInput
	}
	chatSession, err := s.sessionRepo.GetByIDAndUserID(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if chatSession == nil {
		return nil, ErrSessionNotFound
	}
	return s.messageRepo.ListBySessionID(sessionID, limit)
}

// completeOrFallback obtains the assistant reply. The external call is
// bounded by the reply timeout; every failure path lands on the deterministic
// responder, distinguished only in the logs.
func (s *ChatService) completeOrFallback(ctx context.Context, userText string, window []session.Message) string {
	if !s.llmConfigured() {
		log.Printf("llm not configured, using fallback responder")
		return fallback.Respond(userText)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.replyTimeout)
	defer cancel()

	messages := make([]ai.ChatMessage, 0, len(window))
	for _, m := range window {
		messages = append(messages, ai.ChatMessage{Role: m.Role, Content: m.Content})
	}

	out, err := s.llmClient.Complete(callCtx, s.llmConfig, messages)
	if err != nil {
		log.Printf("llm call failed, using fallback responder: %v", err)
		return fallback.Respond(userText)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		log.Printf("llm returned empty reply, using fallback responder")
		return fallback.Respond(userText)
	}
	return out
}

func (s *ChatService) llmConfigured() bool {
	key := strings.ToLower(strings.TrimSpace(s.llmConfig.APIKey))
	switch key {
	case "", "change-me", "changeme", "placeholder", "your-api-key":
		return false
	}
	return s.llmConfig.BaseURL != "" && s.llmConfig.Model != ""
}

// persistAsync enqueues a transcript row. The in-memory window is the
// operative chat state; a persistence hiccup is logged, not surfaced.
func (s *ChatService) persistAsync(ctx context.Context, userID, sessionID uint, role, content string) {
	if s.publisher == nil {
		return
	}
	msg := model.Message{
		SessionID: sessionID,
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), msg); err != nil {
		log.Printf("enqueue %s message for session %d failed: %v", role, sessionID, err)
	}
}
