package commands

import (
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"github.com/user/weekly-report-bot/internal/dialog"
	"github.com/user/weekly-report-bot/internal/session"
)

func testMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text: text,
		From: &tgbotapi.User{ID: 42, UserName: "tester"},
		Chat: &tgbotapi.Chat{ID: 100},
	}
}

func markupOf(t *testing.T, msg *tgbotapi.MessageConfig) tgbotapi.InlineKeyboardMarkup {
	t.Helper()
	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	assert.True(t, ok, "expected an inline keyboard")
	return markup
}

func TestRegistry_HelpTextKeepsRegistrationOrder(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewStartCommand(registry))
	registry.Register(NewCancelCommand(session.NewStore(session.DefaultIdleTTL)))
	registry.Register(NewHelpCommand(registry))

	help := registry.GenerateHelpText()

	assert.Contains(t, help, "/start — начать работу с ботом")
	assert.Contains(t, help, "/cancel — прервать текущий диалог")
	assert.Less(t, strings.Index(help, "/start"), strings.Index(help, "/cancel"))
}

func TestNewReportCommand_StartsDialogue(t *testing.T) {
	store := new(dialog.MockReportStore)
	sessions := session.NewStore(session.DefaultIdleTTL)
	defer sessions.Close()
	cmd := NewNewReportCommand(sessions, dialog.NewMachine(store))

	msg := cmd.Execute(testMessage("/new_report"))

	assert.Contains(t, msg.Text, "недел")
	sess := sessions.GetOrCreate(42)
	assert.Equal(t, dialog.StateAwaitingWeekNumber, sess.State)
}

func TestEditReportCommand_ListsStoredWeeks(t *testing.T) {
	store := new(dialog.MockReportStore)
	dialog.ConfigureMockStore(store).WithWeekNumbers([]int{3, 7})

	msg := NewEditReportCommand(store).Execute(testMessage("/edit_report"))

	markup := markupOf(t, msg)
	assert.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "3 неделя", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, dialog.LoadToken(3), *markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, dialog.LoadToken(7), *markup.InlineKeyboard[1][0].CallbackData)
}

func TestEditReportCommand_NoStoredReports(t *testing.T) {
	store := new(dialog.MockReportStore)
	dialog.ConfigureMockStore(store).WithWeekNumbers(nil)

	msg := NewEditReportCommand(store).Execute(testMessage("/edit_report"))

	assert.Equal(t, msgNoReports, msg.Text)
	assert.Nil(t, msg.ReplyMarkup)
}

func TestDeleteReportCommand_ListsStoredWeeks(t *testing.T) {
	store := new(dialog.MockReportStore)
	dialog.ConfigureMockStore(store).WithWeekNumbers([]int{5})

	msg := NewDeleteReportCommand(store).Execute(testMessage("/delete_report"))

	markup := markupOf(t, msg)
	assert.Len(t, markup.InlineKeyboard, 1)
	assert.Equal(t, dialog.DeleteToken(5), *markup.InlineKeyboard[0][0].CallbackData)
}

func TestCancelCommand_ResetsSession(t *testing.T) {
	sessions := session.NewStore(session.DefaultIdleTTL)
	defer sessions.Close()
	sessions.SetState(42, dialog.StateAwaitingComment)

	msg := NewCancelCommand(sessions).Execute(testMessage("/cancel"))

	assert.Contains(t, msg.Text, "прерван")
	assert.Equal(t, dialog.StateIdle, sessions.GetOrCreate(42).State)
}
