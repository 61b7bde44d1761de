package bot

import (
	"context"
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/weekly-report-bot/internal/commands"
	"github.com/user/weekly-report-bot/internal/dialog"
	"github.com/user/weekly-report-bot/internal/session"
)

type Bot struct {
	api             *tgbotapi.BotAPI
	commandRegistry *commands.Registry
	sessions        *session.Store
	machine         *dialog.Machine
	wg              sync.WaitGroup
	stopCh          chan struct{}
}

func New(telegramToken string, store dialog.ReportStore) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(telegramToken)
	if err != nil {
		return nil, err
	}
	return newWithAPI(api, store), nil
}

func newWithAPI(api *tgbotapi.BotAPI, store dialog.ReportStore) *Bot {
	sessions := session.NewStore(session.DefaultIdleTTL)
	machine := dialog.NewMachine(store)

	// Initialize command registry
	registry := commands.NewRegistry()
	registry.Register(commands.NewStartCommand(registry))
	registry.Register(commands.NewNewReportCommand(sessions, machine))
	registry.Register(commands.NewEditReportCommand(store))
	registry.Register(commands.NewDeleteReportCommand(store))
	registry.Register(commands.NewCancelCommand(sessions))
	registry.Register(commands.NewHelpCommand(registry))

	return &Bot{
		api:             api,
		commandRegistry: registry,
		sessions:        sessions,
		machine:         machine,
		stopCh:          make(chan struct{}),
	}
}

// Start begins listening for updates from Telegram long polling.
func (b *Bot) Start() {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.api.GetUpdatesChan(updateConfig)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.handleUpdates(updates)
	}()
}

// Stop gracefully shuts down the bot
func (b *Bot) Stop() {
	close(b.stopCh)
	b.api.StopReceivingUpdates()
	b.wg.Wait()
	b.sessions.Close()
}

// SessionCount reports the number of live dialogue sessions.
func (b *Bot) SessionCount() int {
	return b.sessions.Len()
}

func (b *Bot) handleUpdates(updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-b.stopCh:
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			// Each update gets its own goroutine so one user's slow
			// store call never stalls another user's dialogue; the
			// session lock still serializes same-user events.
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.ProcessUpdate(update)
			}()
		}
	}
}

// ProcessUpdate handles one Telegram update. It is the single entry
// point for both the polling loop and the webhook server, so a panic
// in a handler never takes the whole process down.
func (b *Bot) ProcessUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			handlerPanics.Inc()
			log.Printf("[BOT] recovered from panic while handling update %d: %v", update.UpdateID, r)
		}
	}()

	switch {
	case update.Message != nil:
		updatesTotal.WithLabelValues("message").Inc()
		b.handleMessage(update.Message)
	case update.CallbackQuery != nil:
		updatesTotal.WithLabelValues("callback").Inc()
		b.handleCallback(update.CallbackQuery)
	default:
		updatesTotal.WithLabelValues("other").Inc()
	}
}

// handleCallback processes callback queries from inline buttons
func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	log.Printf("[CALLBACK] %s: %s", callback.From.UserName, callback.Data)

	// Telegram omits Message for callbacks on messages older than 48h;
	// there is no chat to answer into, so tell the user via the ack.
	if callback.Message == nil {
		if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "Сообщение устарело. Начните заново: /new_report")); err != nil {
			log.Printf("Error answering callback query: %v", err)
		}
		return
	}

	// Answer first so the button stops spinning even on a bad payload
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("Error answering callback query: %v", err)
	}

	event, err := dialog.ParseCallback(callback.Data)
	if err != nil {
		callbackParseErrors.Inc()
		log.Printf("Invalid callback data %q: %v", callback.Data, err)
		return
	}

	b.dispatch(callback.From.ID, callback.Message.Chat.ID, event)
}

// handleMessage processes a single message from a user
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	if message.From == nil {
		return
	}
	log.Printf("[%s] %s", message.From.UserName, message.Text)

	if message.IsCommand() {
		commandName := message.Command()
		log.Printf("[COMMAND] %s: %s", message.From.UserName, commandName)
		command, exists := b.commandRegistry.Get(commandName)
		if !exists {
			b.sendMessage(message.Chat.ID, "Неизвестная команда. /help — список доступных команд.")
			return
		}
		b.sendResponse(command.Execute(message))
		return
	}

	if message.Text == "" {
		return
	}
	b.dispatch(message.From.ID, message.Chat.ID, dialog.TextEvent{Text: message.Text})
}

// dispatch runs one event through the user's dialogue under the
// session lock and sends the resulting reply.
func (b *Bot) dispatch(userID, chatID int64, event dialog.Event) {
	var reply dialog.Reply
	b.sessions.With(userID, func(sess *session.Session) {
		sess.State, reply = b.machine.Handle(context.Background(), sess.Draft, sess.State, event)
	})
	b.sendResponse(commands.ReplyMessage(chatID, reply))
}

// sendResponse sends a message with debugging logs
func (b *Bot) sendResponse(msgConfig *tgbotapi.MessageConfig) {
	if msgConfig == nil {
		return
	}

	if _, err := b.api.Send(msgConfig); err != nil {
		log.Printf("Error sending message: %v", err)
		log.Printf("Message text was: %s", msgConfig.Text)
	}
}

// sendMessage simplified method for sending text messages
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	b.sendResponse(&msg)
}
