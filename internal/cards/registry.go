package cards

import (
	"sync"

	"cardadvisor-telegram-bot/internal/advisor"
)

// Registry caches the most recently shown cards and suggestions per chat.
// Inline-button payloads can only carry small tokens, so buttons reference
// positions in these sequences. Each new batch overwrites the previous one
// wholesale; a stale index resolves to "not found", never to a wrong card.
type Registry struct {
	mu          sync.RWMutex
	cards       map[int64][]advisor.Card
	suggestions map[int64][]string
}

func NewRegistry() *Registry {
	return &Registry{
		cards:       make(map[int64][]advisor.Card),
		suggestions: make(map[int64][]string),
	}
}

// SetCards replaces the cached card batch for the chat.
func (r *Registry) SetCards(chatID int64, batch []advisor.Card) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cards[chatID] = append([]advisor.Card(nil), batch...)
}

// Card resolves a button index back to the card it was rendered for.
func (r *Registry) Card(chatID int64, index int) (advisor.Card, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	batch := r.cards[chatID]
	if index < 0 || index >= len(batch) {
		return advisor.Card{}, false
	}
	return batch[index], true
}

// SetSuggestions replaces the cached follow-up suggestions for the chat.
func (r *Registry) SetSuggestions(chatID int64, suggestions []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.suggestions[chatID] = append([]string(nil), suggestions...)
}

// Suggestion resolves a suggestion-button index back to its text.
func (r *Registry) Suggestion(chatID int64, index int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	batch := r.suggestions[chatID]
	if index < 0 || index >= len(batch) {
		return "", false
	}
	return batch[index], true
}
