package chat

import (
	"sync"

	"github.com/poiesic/recall/core"
)

// Session holds the short-term conversation history for one thread.
// It is safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	history []core.Message
}

// NewSession creates an empty conversation session.
func NewSession() *Session {
	return &Session{}
}

// History returns a copy of the current conversation history.
func (s *Session) History() []core.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]core.Message, len(s.history))
	copy(history, s.history)
	return history
}

// Len returns the number of messages in the session.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// replace swaps the session history for the given messages.
func (s *Session) replace(history []core.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = history
}

// append adds messages to the end of the session history.
func (s *Session) append(msgs ...core.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, msgs...)
}
