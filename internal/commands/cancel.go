package commands

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/weekly-report-bot/internal/session"
)

// CancelCommand handles the /cancel command: it drops the dialogue in
// progress and returns the user to the idle state.
type CancelCommand struct {
	sessions *session.Store
}

func NewCancelCommand(sessions *session.Store) *CancelCommand {
	return &CancelCommand{
		sessions: sessions,
	}
}

func (c *CancelCommand) Name() string {
	return "cancel"
}

func (c *CancelCommand) Description() string {
	return "прервать текущий диалог"
}

func (c *CancelCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	c.sessions.Reset(message.From.ID)
	msg := tgbotapi.NewMessage(message.Chat.ID, "❌ Диалог прерван. Начать заново: /new_report")
	return &msg
}
