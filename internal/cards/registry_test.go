package cards

import (
	"testing"

	"cardadvisor-telegram-bot/internal/advisor"
)

func TestCardResolvesByIndex(t *testing.T) {
	r := NewRegistry()
	r.SetCards(1, []advisor.Card{
		{CardName: "Card A", Issuer: "BankX"},
		{CardName: "Card B", Issuer: "BankY"},
	})

	card, ok := r.Card(1, 1)
	if !ok {
		t.Fatal("expected card at index 1")
	}
	if card.CardName != "Card B" {
		t.Fatalf("wrong card resolved: %+v", card)
	}
}

func TestStaleIndexAfterOverwriteNotFound(t *testing.T) {
	r := NewRegistry()
	r.SetCards(1, []advisor.Card{
		{CardName: "Card A", Issuer: "BankX"},
		{CardName: "Card B", Issuer: "BankY"},
	})
	r.SetCards(1, []advisor.Card{
		{CardName: "Card C", Issuer: "BankZ"},
	})

	if _, ok := r.Card(1, 1); ok {
		t.Fatal("stale index must not resolve after overwrite")
	}
	card, ok := r.Card(1, 0)
	if !ok || card.CardName != "Card C" {
		t.Fatalf("expected new batch at index 0, got %+v ok=%v", card, ok)
	}
}

func TestOutOfRangeIndexNotFound(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Card(9, 0); ok {
		t.Fatal("unseen chat must not resolve")
	}

	r.SetCards(9, []advisor.Card{{CardName: "Card A", Issuer: "BankX"}})
	if _, ok := r.Card(9, -1); ok {
		t.Fatal("negative index must not resolve")
	}
	if _, ok := r.Card(9, 1); ok {
		t.Fatal("index past end must not resolve")
	}
}

func TestSuggestionsOverwriteAndResolve(t *testing.T) {
	r := NewRegistry()
	r.SetSuggestions(3, []string{"Tell me about fees", "Compare cards"})

	got, ok := r.Suggestion(3, 0)
	if !ok || got != "Tell me about fees" {
		t.Fatalf("expected first suggestion, got %q ok=%v", got, ok)
	}

	r.SetSuggestions(3, nil)
	if _, ok := r.Suggestion(3, 0); ok {
		t.Fatal("suggestion must not survive overwrite")
	}
}
