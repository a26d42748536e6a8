package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"cardadvisor-telegram-bot/internal/advisor"
)

// ErrNotFound signals an index that resolves to no favorite.
var ErrNotFound = errors.New("favorite not found")

// FeedbackKind selects which counter RecordFeedback increments.
type FeedbackKind int

const (
	FeedbackLike FeedbackKind = iota
	FeedbackDislike
)

// Favorite is a saved card with the moment it was saved, for display.
type Favorite struct {
	Card    advisor.Card `json:"card"`
	SavedAt time.Time    `json:"savedAt"`
}

// Feedback tallies like/dislike presses per card.
type Feedback struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

type document struct {
	Favorites map[int64][]Favorite          `json:"favorites"`
	Feedback  map[int64]map[string]Feedback `json:"feedback"`
}

// Store is the durable favorites/feedback state: one JSON document, fully
// rewritten on every mutation before the mutating call returns. The mutex
// is held across mutate+flush, so the store is the single writer of the
// file and concurrent actions on the same chat serialize here.
type Store struct {
	mu   sync.Mutex
	path string
	doc  document
}

// Load reads the state document from path. A missing file starts empty;
// an unparsable file starts empty with a logged warning. Loading never
// fails the startup.
func Load(path string) *Store {
	s := &Store{path: path, doc: emptyDocument()}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s
	}
	if err != nil {
		log.Warnf("could not read state file %s, starting empty: %v", path, err)
		return s
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Warnf("could not parse state file %s, starting empty: %v", path, err)
		return s
	}
	if doc.Favorites == nil {
		doc.Favorites = make(map[int64][]Favorite)
	}
	if doc.Feedback == nil {
		doc.Feedback = make(map[int64]map[string]Feedback)
	}

	s.doc = doc
	return s
}

func emptyDocument() document {
	return document{
		Favorites: make(map[int64][]Favorite),
		Feedback:  make(map[int64]map[string]Feedback),
	}
}

// AddFavorite saves the card for the chat unless one with the same slug is
// already present. Insertion order is preserved for display.
func (s *Store) AddFavorite(chatID int64, card advisor.Card) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, fav := range s.doc.Favorites[chatID] {
		if fav.Card.Slug() == card.Slug() {
			return false, nil
		}
	}

	s.doc.Favorites[chatID] = append(s.doc.Favorites[chatID], Favorite{
		Card:    card,
		SavedAt: time.Now().UTC(),
	})
	if err := s.flushLocked(); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveFavorite removes the favorite at the given display position.
func (s *Store) RemoveFavorite(chatID int64, index int) (advisor.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favs := s.doc.Favorites[chatID]
	if index < 0 || index >= len(favs) {
		return advisor.Card{}, ErrNotFound
	}

	removed := favs[index]
	s.doc.Favorites[chatID] = append(favs[:index], favs[index+1:]...)
	if len(s.doc.Favorites[chatID]) == 0 {
		delete(s.doc.Favorites, chatID)
	}
	if err := s.flushLocked(); err != nil {
		return advisor.Card{}, err
	}
	return removed.Card, nil
}

// Favorites returns the chat's saved cards in insertion order.
func (s *Store) Favorites(chatID int64) []Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Favorite(nil), s.doc.Favorites[chatID]...)
}

// RecordFeedback increments the chosen counter for the card and returns
// the updated tally.
func (s *Store) RecordFeedback(chatID int64, card advisor.Card, kind FeedbackKind) (Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc.Feedback[chatID] == nil {
		s.doc.Feedback[chatID] = make(map[string]Feedback)
	}

	entry := s.doc.Feedback[chatID][card.Slug()]
	if kind == FeedbackLike {
		entry.Likes++
	} else {
		entry.Dislikes++
	}
	s.doc.Feedback[chatID][card.Slug()] = entry

	if err := s.flushLocked(); err != nil {
		return Feedback{}, err
	}
	return entry, nil
}

// FeedbackFor returns the current tally for the card, zero if none.
func (s *Store) FeedbackFor(chatID int64, card advisor.Card) Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.doc.Feedback[chatID][card.Slug()]
}

// flushLocked rewrites the whole document. Write-temp-then-rename keeps
// the previous document intact if the process dies mid-flush.
func (s *Store) flushLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "could not create state directory")
	}

	raw, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not encode state")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return errors.Wrap(err, "could not write state file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "could not replace state file")
	}
	return nil
}
