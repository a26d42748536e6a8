package telegram

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"cardadvisor-telegram-bot/internal/advisor"
	"cardadvisor-telegram-bot/lib/helpers"
	"cardadvisor-telegram-bot/lib/translation"
)

// formatCard renders one card as a MarkdownV2 message. Detail keys are
// sorted for stable output; empty values render as "N/A".
func formatCard(card advisor.Card) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("*%s*\n", helpers.EscapeMarkdownV2(card.CardName)))
	sb.WriteString(fmt.Sprintf("%s %s\n", helpers.EscapeMarkdownV2(translation.Translate("Issuer:")), helpers.EscapeMarkdownV2(card.Issuer)))
	sb.WriteString(fmt.Sprintf("%s %s \\(%s\\)\n", helpers.EscapeMarkdownV2(translation.Translate("Network:")), helpers.EscapeMarkdownV2(card.Network), helpers.EscapeMarkdownV2(card.NetworkTier)))

	if len(card.Details) > 0 {
		sb.WriteString("\n")

		keys := make([]string, 0, len(card.Details))
		for key := range card.Details {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			sb.WriteString(fmt.Sprintf("*%s:* %s\n",
				helpers.EscapeMarkdownV2(helpers.DetailLabel(key)),
				helpers.EscapeMarkdownV2(detailValue(card.Details[key])),
			))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func detailValue(value interface{}) string {
	if value == nil {
		return "N/A"
	}
	s := fmt.Sprintf("%v", value)
	if s == "" {
		return "N/A"
	}
	return s
}

// cardActionsKeyboard builds the save/like/dislike row for the card at
// the given position in the current batch.
func cardActionsKeyboard(index int) *tgbotapi.InlineKeyboardMarkup {
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(translation.Translate("💾 Save"), fmt.Sprintf("fav_save_%d", index)),
			tgbotapi.NewInlineKeyboardButtonData("👍", fmt.Sprintf("fb_like_%d", index)),
			tgbotapi.NewInlineKeyboardButtonData("👎", fmt.Sprintf("fb_dislike_%d", index)),
		),
	)
	return &markup
}

func suggestionKeyboard(suggestions []string) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, suggestion := range suggestions {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(suggestion, fmt.Sprintf("sugg_%d", i)),
		))
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

// favoritesView renders the chat's saved cards with per-item remove
// buttons, or the empty notice without any keyboard.
func (b *Bot) favoritesView(chatID int64) outgoing {
	favs := b.state.Favorites(chatID)
	if len(favs) == 0 {
		empty := translation.Translate("You have no favorites yet. Save a card with the 💾 button under a recommendation.")
		return outgoing{text: helpers.EscapeMarkdownV2(empty)}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s*\n\n", helpers.EscapeMarkdownV2(translation.Translate("Your favorite cards"))))

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, fav := range favs {
		sb.WriteString(fmt.Sprintf("%d\\. *%s* \\(%s\\)\n_%s_\n\n",
			i+1,
			helpers.EscapeMarkdownV2(fav.Card.CardName),
			helpers.EscapeMarkdownV2(fav.Card.Issuer),
			helpers.EscapeMarkdownV2(translation.Translate("saved %s", humanize.Time(fav.SavedAt))),
		))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				translation.Translate("🗑 Remove %s", fav.Card.CardName),
				fmt.Sprintf("fav_remove_%d", i),
			),
		))
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return outgoing{text: strings.TrimRight(sb.String(), "\n"), markup: &markup}
}
