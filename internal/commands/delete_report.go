package commands

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/weekly-report-bot/internal/dialog"
)

// DeleteReportCommand handles the /delete_report command: it lists
// stored weeks and offers a button per week that removes the report.
type DeleteReportCommand struct {
	store dialog.ReportStore
}

func NewDeleteReportCommand(store dialog.ReportStore) *DeleteReportCommand {
	return &DeleteReportCommand{
		store: store,
	}
}

func (c *DeleteReportCommand) Name() string {
	return "delete_report"
}

func (c *DeleteReportCommand) Description() string {
	return "удалить сохранённый отчёт"
}

func (c *DeleteReportCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	weeks := c.store.ListWeekNumbers(context.Background())
	if len(weeks) == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID, msgNoReports)
		return &msg
	}

	reply := dialog.Reply{Text: "Какой отчёт нужно удалить?"}
	for _, week := range weeks {
		reply.Choices = append(reply.Choices, []dialog.Choice{{
			Label: fmt.Sprintf("%d неделя", week),
			Data:  dialog.DeleteToken(week),
		}})
	}
	return ReplyMessage(message.Chat.ID, reply)
}
