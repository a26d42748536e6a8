package state

import (
	"os"
	"path/filepath"
	"testing"

	"cardadvisor-telegram-bot/internal/advisor"
)

func tempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	return Load(path), path
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	s, _ := tempStore(t)
	if favs := s.Favorites(1); len(favs) != 0 {
		t.Fatalf("expected empty favorites, got %+v", favs)
	}
}

func TestLoadCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Load(path)
	if favs := s.Favorites(1); len(favs) != 0 {
		t.Fatalf("expected empty favorites from corrupt file, got %+v", favs)
	}
}

func TestAddFavoriteIsIdempotentPerSlug(t *testing.T) {
	s, _ := tempStore(t)
	card := advisor.Card{CardName: "Card A", Issuer: "BankX"}

	added, err := s.AddFavorite(5, card)
	if err != nil || !added {
		t.Fatalf("first save: added=%v err=%v", added, err)
	}

	// Same slug, different presentation fields.
	again := card
	again.Network = "Visa"
	added, err = s.AddFavorite(5, again)
	if err != nil {
		t.Fatal(err)
	}
	if added {
		t.Fatal("second save of the same slug must be a no-op")
	}
	if favs := s.Favorites(5); len(favs) != 1 {
		t.Fatalf("expected one favorite, got %d", len(favs))
	}
}

func TestFavoritesPreserveInsertionOrder(t *testing.T) {
	s, _ := tempStore(t)
	s.AddFavorite(1, advisor.Card{CardName: "Card A", Issuer: "BankX"})
	s.AddFavorite(1, advisor.Card{CardName: "Card B", Issuer: "BankY"})
	s.AddFavorite(1, advisor.Card{CardName: "Card C", Issuer: "BankZ"})

	favs := s.Favorites(1)
	if len(favs) != 3 {
		t.Fatalf("expected 3 favorites, got %d", len(favs))
	}
	for i, want := range []string{"Card A", "Card B", "Card C"} {
		if favs[i].Card.CardName != want {
			t.Fatalf("favorite %d: expected %s, got %s", i, want, favs[i].Card.CardName)
		}
	}
}

func TestRemoveFavoriteByPosition(t *testing.T) {
	s, _ := tempStore(t)
	s.AddFavorite(1, advisor.Card{CardName: "Card A", Issuer: "BankX"})
	s.AddFavorite(1, advisor.Card{CardName: "Card B", Issuer: "BankY"})

	removed, err := s.RemoveFavorite(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if removed.CardName != "Card A" {
		t.Fatalf("removed wrong card: %+v", removed)
	}

	favs := s.Favorites(1)
	if len(favs) != 1 || favs[0].Card.CardName != "Card B" {
		t.Fatalf("unexpected favorites after removal: %+v", favs)
	}
}

func TestRemoveFavoriteOutOfRangeLeavesStateUnchanged(t *testing.T) {
	s, _ := tempStore(t)
	s.AddFavorite(1, advisor.Card{CardName: "Card A", Issuer: "BankX"})

	if _, err := s.RemoveFavorite(1, 3); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.RemoveFavorite(1, -1); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for negative index, got %v", err)
	}
	if favs := s.Favorites(1); len(favs) != 1 {
		t.Fatalf("favorites mutated by failed removal: %+v", favs)
	}
}

func TestRecordFeedbackAccumulates(t *testing.T) {
	s, _ := tempStore(t)
	card := advisor.Card{CardName: "Card A", Issuer: "BankX"}

	for i := 0; i < 3; i++ {
		if _, err := s.RecordFeedback(1, card, FeedbackLike); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := s.RecordFeedback(1, card, FeedbackDislike); err != nil {
			t.Fatal(err)
		}
	}

	got := s.FeedbackFor(1, card)
	if got.Likes != 3 || got.Dislikes != 2 {
		t.Fatalf("expected {3 2}, got %+v", got)
	}
}

func TestMutationsSurviveReload(t *testing.T) {
	s, path := tempStore(t)
	card := advisor.Card{CardName: "Card A", Issuer: "BankX", Network: "Visa", NetworkTier: "Signature"}

	s.AddFavorite(77, card)
	s.RecordFeedback(77, card, FeedbackLike)

	reloaded := Load(path)
	favs := reloaded.Favorites(77)
	if len(favs) != 1 || favs[0].Card.Slug() != "BankX|Card A" {
		t.Fatalf("favorites lost across reload: %+v", favs)
	}
	if favs[0].SavedAt.IsZero() {
		t.Fatal("SavedAt not persisted")
	}
	if fb := reloaded.FeedbackFor(77, card); fb.Likes != 1 {
		t.Fatalf("feedback lost across reload: %+v", fb)
	}
}

func TestFlushLeavesNoTempFile(t *testing.T) {
	s, path := tempStore(t)
	s.AddFavorite(1, advisor.Card{CardName: "Card A", Issuer: "BankX"})

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("state file missing after mutation: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}
