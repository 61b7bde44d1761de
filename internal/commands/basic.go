package commands

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// StartCommand handles the /start command
type StartCommand struct {
	registry *Registry
}

// NewStartCommand creates a new start command handler
func NewStartCommand(registry *Registry) *StartCommand {
	return &StartCommand{
		registry: registry,
	}
}

// Name returns the command name
func (c *StartCommand) Name() string {
	return "start"
}

// Description returns the command description
func (c *StartCommand) Description() string {
	return "начать работу с ботом"
}

func (c *StartCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	welcomeText := `📝 Привет! Я помогаю вести еженедельные отчёты.

Каждую неделю я задам несколько вопросов:
— номер недели
— оценка состояния
— что из запланированного сделано
— что сделано сверх плана
— планы на следующую неделю
— приоритетная задача и комментарий

В конце соберу из ответов готовый отчёт и сохраню его в таблицу.

🧩 Полный список команд
/new_report — составить отчёт за неделю
/edit_report — изменить сохранённый отчёт
/delete_report — удалить сохранённый отчёт
/cancel — прервать текущий диалог
/help — показать список доступных команд
`

	msg := tgbotapi.NewMessage(message.Chat.ID, welcomeText)
	return &msg
}

// HelpCommand handles the /help command
type HelpCommand struct {
	registry *Registry
}

// NewHelpCommand creates a new help command handler
func NewHelpCommand(registry *Registry) *HelpCommand {
	return &HelpCommand{
		registry: registry,
	}
}

// Name returns the command name
func (c *HelpCommand) Name() string {
	return "help"
}

// Description returns the command description
func (c *HelpCommand) Description() string {
	return "показать список доступных команд"
}

func (c *HelpCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(message.Chat.ID, c.registry.GenerateHelpText())
	return &msg
}
