// Package session holds the in-memory conversation windows. Each chat session
// keeps a bounded slice of messages: the system instruction at index 0 plus
// the most recent turns, trimmed after every append.
package session

import (
	"sync"
	"time"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultMaxWindow is the message window bound used when no value is
// configured.
const DefaultMaxWindow = 10

type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// State is one session's conversation window plus the fingerprint of the
// knowledge base its system message was built from.
type State struct {
	SessionID   uint      `json:"session_id"`
	Fingerprint string    `json:"fingerprint"`
	Messages    []Message `json:"messages"`
}

// EnsureInstruction installs instruction as the system message when the
// window is empty or when fingerprint differs from the one the window was
// seeded with. Re-seeding drops all prior turns; that is deliberate, the old
// turns were answered under a different instruction. Reports whether a
// re-seed happened.
func (s *State) EnsureInstruction(fingerprint, instruction string) bool {
	if len(s.Messages) > 0 && s.Fingerprint == fingerprint {
		return false
	}
	s.Fingerprint = fingerprint
	s.Messages = []Message{{Role: RoleSystem, Content: instruction, CreatedAt: time.Now()}}
	return true
}

func (s *State) AppendUser(text string) {
	s.Messages = append(s.Messages, Message{Role: RoleUser, Content: text, CreatedAt: time.Now()})
}

func (s *State) AppendAssistant(text string) {
	s.Messages = append(s.Messages, Message{Role: RoleAssistant, Content: text, CreatedAt: time.Now()})
}

// Trim enforces the window bound: the system message at index 0 survives,
// then the most recent messages up to maxWindow total. Oldest non-system
// messages go first.
func (s *State) Trim(maxWindow int) {
	if maxWindow <= 0 {
		maxWindow = DefaultMaxWindow
	}
	if len(s.Messages) <= maxWindow {
		return
	}
	if s.Messages[0].Role == RoleSystem {
		kept := make([]Message, 0, maxWindow)
		kept = append(kept, s.Messages[0])
		kept = append(kept, s.Messages[len(s.Messages)-(maxWindow-1):]...)
		s.Messages = kept
		return
	}
	s.Messages = append([]Message(nil), s.Messages[len(s.Messages)-maxWindow:]...)
}

// Store keys session state by session id and serializes access per key, so
// concurrent turns on the same session cannot interleave appends. Turns on
// different sessions proceed in parallel.
type Store struct {
	mu       sync.Mutex
	sessions map[uint]*entry
}

type entry struct {
	mu    sync.Mutex
	state State
}

func NewStore() *Store {
	return &Store{sessions: make(map[uint]*entry)}
}

func (st *Store) lookup(sessionID uint) *entry {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.sessions[sessionID]
	if !ok {
		e = &entry{state: State{SessionID: sessionID}}
		st.sessions[sessionID] = e
	}
	return e
}

// Do runs fn with exclusive access to the session's state. Mutations made by
// fn are retained unless fn returns an error, in which case the state is
// rolled back to what it was before the call.
func (st *Store) Do(sessionID uint, fn func(s *State) error) error {
	e := st.lookup(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.state.clone()
	if err := fn(&e.state); err != nil {
		e.state = before
		return err
	}
	return nil
}

// Peek returns a copy of the session's state, reporting whether the session
// is known to the store.
func (st *Store) Peek(sessionID uint) (State, bool) {
	st.mu.Lock()
	e, ok := st.sessions[sessionID]
	st.mu.Unlock()
	if !ok {
		return State{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone(), true
}

// Delete forgets a session's window. Used when the session itself is deleted.
func (st *Store) Delete(sessionID uint) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, sessionID)
}

func (s State) clone() State {
	out := s
	out.Messages = append([]Message(nil), s.Messages...)
	return out
}
