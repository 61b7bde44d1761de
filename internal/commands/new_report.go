package commands

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/weekly-report-bot/internal/dialog"
	"github.com/user/weekly-report-bot/internal/session"
)

// NewReportCommand handles the /new_report command: it starts the
// weekly report dialogue from scratch for the calling user.
type NewReportCommand struct {
	sessions *session.Store
	machine  *dialog.Machine
}

func NewNewReportCommand(sessions *session.Store, machine *dialog.Machine) *NewReportCommand {
	return &NewReportCommand{
		sessions: sessions,
		machine:  machine,
	}
}

func (c *NewReportCommand) Name() string {
	return "new_report"
}

func (c *NewReportCommand) Description() string {
	return "составить отчёт за неделю"
}

func (c *NewReportCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	var reply dialog.Reply
	c.sessions.With(message.From.ID, func(sess *session.Session) {
		sess.State, reply = c.machine.Handle(context.Background(), sess.Draft, sess.State, dialog.StartReportEvent{})
	})
	return ReplyMessage(message.Chat.ID, reply)
}
