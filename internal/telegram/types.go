package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"cardadvisor-telegram-bot/internal/advisor"
	"cardadvisor-telegram-bot/internal/cards"
	"cardadvisor-telegram-bot/internal/history"
	"cardadvisor-telegram-bot/internal/state"
)

// BotConfig configuration of the bot
type BotConfig struct {
	Token          string
	Debug          bool
	UpdatesTimeout int
}

// Recommender is the advisor surface the bot depends on.
type Recommender interface {
	Chat(history []advisor.Turn, message string) *advisor.Reply
	Ping() bool
}

// Bot telegram interaction client
type Bot struct {
	Bot    *tgbotapi.BotAPI
	Config BotConfig

	advisor  Recommender
	history  *history.Store
	state    *state.Store
	registry *cards.Registry
}

// outgoing is one message the bot wants delivered to a chat.
type outgoing struct {
	text   string
	markup *tgbotapi.InlineKeyboardMarkup
}
