package telegram

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"cardadvisor-telegram-bot/internal/state"
	"cardadvisor-telegram-bot/lib/translation"
)

type actionKind int

const (
	actionUnknown actionKind = iota
	actionSaveFavorite
	actionLike
	actionDislike
	actionRemoveFavorite
	actionSuggestion
)

// callbackAction is the decoded form of an inline-button payload. Button
// data is decoded exactly once, here; the rest of the router works on the
// tagged value.
type callbackAction struct {
	kind  actionKind
	index int
}

var callbackPrefixes = []struct {
	prefix string
	kind   actionKind
}{
	{"fav_save_", actionSaveFavorite},
	{"fav_remove_", actionRemoveFavorite},
	{"fb_like_", actionLike},
	{"fb_dislike_", actionDislike},
	{"sugg_", actionSuggestion},
}

func parseCallback(data string) callbackAction {
	for _, p := range callbackPrefixes {
		rest, ok := strings.CutPrefix(data, p.prefix)
		if !ok {
			continue
		}
		index, err := strconv.Atoi(rest)
		if err != nil || index < 0 {
			return callbackAction{kind: actionUnknown}
		}
		return callbackAction{kind: p.kind, index: index}
	}
	return callbackAction{kind: actionUnknown}
}

// callbackResult is what a routed action wants done: an answer to the
// button press, optionally an in-place edit of the pressed message,
// optionally follow-up messages.
type callbackResult struct {
	notice    string
	alert     bool
	edit      *outgoing
	followUps []outgoing
}

func notFoundResult() callbackResult {
	return callbackResult{
		notice: translation.Translate("That card is no longer available. Ask me again for recommendations."),
		alert:  true,
	}
}

func failureResult() callbackResult {
	return callbackResult{
		notice: translation.Translate("Something went wrong. Please try again."),
		alert:  true,
	}
}

func (b *Bot) applyCallback(chatID int64, action callbackAction) callbackResult {
	switch action.kind {
	case actionSaveFavorite:
		card, ok := b.registry.Card(chatID, action.index)
		if !ok {
			return notFoundResult()
		}
		added, err := b.state.AddFavorite(chatID, card)
		if err != nil {
			log.Errorf("failed to save favorite for chat %d: %v", chatID, err)
			return failureResult()
		}
		if !added {
			return callbackResult{notice: translation.Translate("Already in your favorites.")}
		}
		return callbackResult{notice: translation.Translate("Saved to favorites.")}

	case actionLike, actionDislike:
		card, ok := b.registry.Card(chatID, action.index)
		if !ok {
			return notFoundResult()
		}
		kind := state.FeedbackLike
		if action.kind == actionDislike {
			kind = state.FeedbackDislike
		}
		tally, err := b.state.RecordFeedback(chatID, card, kind)
		if err != nil {
			log.Errorf("failed to record feedback for chat %d: %v", chatID, err)
			return failureResult()
		}
		return callbackResult{notice: translation.Translate("Thanks for the feedback! 👍 %d · 👎 %d", tally.Likes, tally.Dislikes)}

	case actionRemoveFavorite:
		removed, err := b.state.RemoveFavorite(chatID, action.index)
		if err == state.ErrNotFound {
			return notFoundResult()
		}
		if err != nil {
			log.Errorf("failed to remove favorite for chat %d: %v", chatID, err)
			return failureResult()
		}
		view := b.favoritesView(chatID)
		return callbackResult{
			notice: translation.Translate("Removed %s from favorites.", removed.CardName),
			edit:   &view,
		}

	case actionSuggestion:
		suggestion, ok := b.registry.Suggestion(chatID, action.index)
		if !ok {
			return notFoundResult()
		}
		return callbackResult{
			notice:    suggestion,
			followUps: b.buildChatReplies(chatID, suggestion),
		}

	default:
		return callbackResult{notice: translation.Translate("Unknown action. Please try again.")}
	}
}

// HandleCallbackQuery routes an inline-button press. Every press gets an
// answer, even when the handler fails.
func (b *Bot) HandleCallbackQuery(callbackQuery *tgbotapi.CallbackQuery) {
	if callbackQuery.Message == nil {
		b.answerCallback(callbackQuery.ID, translation.Translate("Chat not found."), true)
		return
	}
	chatID := callbackQuery.Message.Chat.ID

	result := b.applyCallback(chatID, parseCallback(callbackQuery.Data))

	if result.edit != nil {
		var edit tgbotapi.EditMessageTextConfig
		if result.edit.markup != nil {
			edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, callbackQuery.Message.MessageID, result.edit.text, *result.edit.markup)
		} else {
			edit = tgbotapi.NewEditMessageText(chatID, callbackQuery.Message.MessageID, result.edit.text)
		}
		edit.ParseMode = tgbotapi.ModeMarkdownV2
		if _, err := b.Bot.Send(edit); err != nil {
			log.Errorf("failed to edit message %d: %v", callbackQuery.Message.MessageID, err)
		}
	}

	for _, out := range result.followUps {
		if err := b.send(chatID, out); err != nil {
			log.Errorf("failed to send follow-up: %v", err)
		}
	}

	b.answerCallback(callbackQuery.ID, result.notice, result.alert)
}

func (b *Bot) answerCallback(id, text string, alert bool) {
	callback := tgbotapi.NewCallback(id, text)
	if alert {
		callback = tgbotapi.NewCallbackWithAlert(id, text)
	}
	if _, err := b.Bot.Request(callback); err != nil {
		log.Errorf("failed to answer callback query: %v", err)
	}
}
