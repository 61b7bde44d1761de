package commands

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/weekly-report-bot/internal/dialog"
)

// ReplyMessage converts a dialogue reply into a Telegram message with
// an inline keyboard built from its choices.
func ReplyMessage(chatID int64, r dialog.Reply) *tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, r.Text)
	if markup := KeyboardMarkup(r); markup != nil {
		msg.ReplyMarkup = *markup
	}
	return &msg
}

// KeyboardMarkup builds the inline keyboard for a reply; nil when the
// reply carries no choices.
func KeyboardMarkup(r dialog.Reply) *tgbotapi.InlineKeyboardMarkup {
	if len(r.Choices) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(r.Choices))
	for _, row := range r.Choices {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, choice := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(choice.Label, choice.Data))
		}
		rows = append(rows, buttons)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}
