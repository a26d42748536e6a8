package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"cardadvisor-telegram-bot/internal/advisor"
	"cardadvisor-telegram-bot/internal/cards"
	"cardadvisor-telegram-bot/internal/history"
	"cardadvisor-telegram-bot/internal/state"
	"cardadvisor-telegram-bot/lib/helpers"
	"cardadvisor-telegram-bot/lib/translation"
)

// NewBot creates new telegram bot
func NewBot(c BotConfig, recommender Recommender, historyStore *history.Store, stateStore *state.Store, registry *cards.Registry) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug

	return &Bot{
		Bot:      bot,
		Config:   c,
		advisor:  recommender,
		history:  historyStore,
		state:    stateStore,
		registry: registry,
	}, nil
}

// GetUpdatesChannel gets new updates updates
func (b *Bot) GetUpdatesChannel() (tgbotapi.UpdatesChannel, error) {
	updatesConfig := tgbotapi.NewUpdate(0)
	if b.Config.UpdatesTimeout > 0 {
		updatesConfig.Timeout = b.Config.UpdatesTimeout
	}
	return b.Bot.GetUpdatesChan(updatesConfig), nil
}

func (b *Bot) send(chatID int64, out outgoing) error {
	msg := tgbotapi.NewMessage(chatID, out.text)
	msg.DisableWebPagePreview = true
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if out.markup != nil {
		msg.ReplyMarkup = *out.markup
	}
	_, err := b.Bot.Send(msg)
	return errors.Wrapf(err, "could not send message to chat %d", chatID)
}

// HandleCommand processes /-commands
func (b *Bot) HandleCommand(u tgbotapi.Update) {
	chatID := u.Message.Chat.ID
	log.Debugf("received command: %s", u.Message.Command())

	var out outgoing
	switch u.Message.Command() {
	case "start":
		username := ""
		if u.Message.From != nil {
			username = u.Message.From.UserName
		}
		out = b.startChat(chatID, username)
	case "favorites":
		out = b.favoritesView(chatID)
	case "health":
		out = b.healthView()
	default:
		out = outgoing{text: helpers.EscapeMarkdownV2(translation.Translate("I can recommend credit cards. Send me a message about your spending habits, or use /favorites to see your saved cards."))}
	}

	if err := b.send(chatID, out); err != nil {
		log.Errorf("failed to answer command: %v", err)
	}
}

// startChat resets the conversation and builds the welcome message.
// Persisted favorites and feedback are untouched.
func (b *Bot) startChat(chatID int64, username string) outgoing {
	b.history.Reset(chatID)

	welcome := translation.Translate("Welcome to Networth Credit Card Advisor Bot, @%s!\n\nI can help you find the best credit card based on your spending habits and preferences.\n\nTell me a bit about your spending habits (groceries, dining, travel, or online shopping)?", username)
	return outgoing{text: helpers.EscapeMarkdownV2(welcome)}
}

func (b *Bot) healthView() outgoing {
	text := translation.Translate("The recommendation service is up.")
	if !b.advisor.Ping() {
		text = translation.Translate("The recommendation service is unreachable right now.")
	}
	return outgoing{text: helpers.EscapeMarkdownV2(text)}
}

// HandleMessage runs the chat pipeline for a free-text message.
func (b *Bot) HandleMessage(msg *tgbotapi.Message) {
	if msg.Text == "" {
		guidance := translation.Translate("I can only read text. Tell me about your spending habits in a message.")
		if err := b.send(msg.Chat.ID, outgoing{text: helpers.EscapeMarkdownV2(guidance)}); err != nil {
			log.Errorf("failed to send guidance: %v", err)
		}
		return
	}

	for _, out := range b.buildChatReplies(msg.Chat.ID, msg.Text) {
		if err := b.send(msg.Chat.ID, out); err != nil {
			log.Errorf("failed to send chat reply: %v", err)
		}
	}
}

// buildChatReplies forwards the message to the advisor and renders the
// structured reply. On total fetch failure the user gets the unavailable
// notice and the conversation history is left as it was: an unanswered
// turn would only mislead the next request.
func (b *Bot) buildChatReplies(chatID int64, text string) []outgoing {
	reply := b.advisor.Chat(b.history.Get(chatID), text)
	if reply == nil {
		unavailable := translation.Translate("I'm having trouble reaching the recommendation service. Please try again in a moment.")
		return []outgoing{{text: helpers.EscapeMarkdownV2(unavailable)}}
	}

	var out []outgoing
	if reply.ResponseText != "" {
		out = append(out, outgoing{text: helpers.EscapeMarkdownV2(reply.ResponseText)})
	}

	for i, card := range reply.Cards {
		out = append(out, outgoing{text: formatCard(card), markup: cardActionsKeyboard(i)})
	}
	if len(reply.Cards) > 0 {
		b.registry.SetCards(chatID, reply.Cards)
	}

	if len(reply.Suggestions) > 0 {
		b.registry.SetSuggestions(chatID, reply.Suggestions)
		out = append(out, outgoing{
			text:   helpers.EscapeMarkdownV2(translation.Translate("Would you like to know more?")),
			markup: suggestionKeyboard(reply.Suggestions),
		})
	}

	b.history.Append(chatID, advisor.Turn{Role: "user", Content: text})
	b.history.Append(chatID, advisor.Turn{Role: "bot", Content: reply.ResponseText})

	return out
}
