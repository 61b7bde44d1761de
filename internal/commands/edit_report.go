package commands

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/weekly-report-bot/internal/dialog"
)

const msgNoReports = "Пока нет сохранённых отчётов."

// EditReportCommand handles the /edit_report command: it lists stored
// weeks and offers a button per week that loads the report for editing.
type EditReportCommand struct {
	store dialog.ReportStore
}

func NewEditReportCommand(store dialog.ReportStore) *EditReportCommand {
	return &EditReportCommand{
		store: store,
	}
}

func (c *EditReportCommand) Name() string {
	return "edit_report"
}

func (c *EditReportCommand) Description() string {
	return "изменить сохранённый отчёт"
}

func (c *EditReportCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	weeks := c.store.ListWeekNumbers(context.Background())
	if len(weeks) == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID, msgNoReports)
		return &msg
	}

	reply := dialog.Reply{Text: "Какой отчёт нужно изменить?"}
	for _, week := range weeks {
		reply.Choices = append(reply.Choices, []dialog.Choice{{
			Label: fmt.Sprintf("%d неделя", week),
			Data:  dialog.LoadToken(week),
		}})
	}
	return ReplyMessage(message.Chat.ID, reply)
}
