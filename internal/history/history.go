package history

import (
	"sync"

	"cardadvisor-telegram-bot/internal/advisor"
)

// maxTurns bounds the history sent to the advisor. Only the most recent
// exchange matters for the recommendation context.
const maxTurns = 2

// Store keeps the recent conversation turns per chat. Purely in-memory:
// a restart resets every conversation.
type Store struct {
	mu    sync.Mutex
	turns map[int64][]advisor.Turn
}

func NewStore() *Store {
	return &Store{turns: make(map[int64][]advisor.Turn)}
}

// Get returns the recorded turns for the chat, empty if unseen.
func (s *Store) Get(chatID int64) []advisor.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.turns[chatID]
	out := make([]advisor.Turn, len(turns))
	copy(out, turns)
	return out
}

// Append records a turn and evicts the oldest entries beyond the bound.
func (s *Store) Append(chatID int64, turn advisor.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.turns[chatID], turn)
	if len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}
	s.turns[chatID] = turns
}

// Reset clears the conversation, used on /start.
func (s *Store) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns[chatID] = nil
}
