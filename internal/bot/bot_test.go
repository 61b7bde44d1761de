package bot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"github.com/user/weekly-report-bot/internal/dialog"
	"github.com/user/weekly-report-bot/internal/report"
	"github.com/user/weekly-report-bot/internal/session"
)

// fakeTelegramAPI stands in for the Bot API: it answers every method
// with an ok response and records the method names it saw.
func fakeTelegramAPI(t *testing.T) (*tgbotapi.BotAPI, *httptest.Server, func() []string) {
	t.Helper()

	var mu sync.Mutex
	var methods []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := path.Base(r.URL.Path)
		mu.Lock()
		methods = append(methods, method)
		mu.Unlock()

		result := `true`
		switch method {
		case "getMe":
			result = `{"id":1,"is_bot":true,"first_name":"bot","username":"testbot"}`
		case "sendMessage":
			result = `{"message_id":1,"chat":{"id":1}}`
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"ok":true,"result":%s}`, result)
	}))

	api, err := tgbotapi.NewBotAPIWithAPIEndpoint("test-token", server.URL+"/bot%s/%s")
	assert.NoError(t, err)

	return api, server, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), methods...)
	}
}

// blockingStore parks every previous-week lookup until released.
type blockingStore struct {
	release chan struct{}
}

func (s *blockingStore) FindPlannedTasksForWeek(ctx context.Context, week int) []string {
	<-s.release
	return nil
}

func (s *blockingStore) Upsert(ctx context.Context, st *report.Stored) bool { return true }

func (s *blockingStore) ListWeekNumbers(ctx context.Context) []int { return nil }

func (s *blockingStore) DeleteWeek(ctx context.Context, week int) bool { return false }

func (s *blockingStore) GetReport(ctx context.Context, week int) (*report.Stored, bool) {
	return nil, false
}

func callbackUpdate(userID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: userID, UserName: "tester"},
		Message: &tgbotapi.Message{MessageID: 1, Chat: &tgbotapi.Chat{ID: userID}},
		Data:    data,
	}}
}

func messageUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 2,
		Text:      text,
		From:      &tgbotapi.User{ID: userID, UserName: "tester"},
		Chat:      &tgbotapi.Chat{ID: userID},
	}}
}

func TestBot_SlowStoreCallDoesNotBlockOtherUsers(t *testing.T) {
	api, server, _ := fakeTelegramAPI(t)
	defer server.Close()

	store := &blockingStore{release: make(chan struct{})}
	b := newWithAPI(api, store)

	// User 1 is about to rate week 5, which triggers the blocking
	// previous-week lookup. User 2 is entering a week number.
	b.sessions.With(1, func(sess *session.Session) {
		sess.State = dialog.StateAwaitingRating
		sess.Draft.Week = 5
	})
	b.sessions.With(2, func(sess *session.Session) {
		sess.State = dialog.StateAwaitingWeekNumber
	})

	updates := make(chan tgbotapi.Update, 2)
	updates <- callbackUpdate(1, "rating:7")
	updates <- messageUpdate(2, "9")
	go b.handleUpdates(updates)

	assert.Eventually(t, func() bool {
		var week int
		b.sessions.With(2, func(sess *session.Session) { week = sess.Draft.Week })
		return week == 9
	}, time.Second, 10*time.Millisecond,
		"user 2's week number must be processed while user 1's store call is in flight")

	close(store.release)
	b.Stop()
}

func TestBot_CallbackWithoutMessageIsAnsweredNotDropped(t *testing.T) {
	api, server, methods := fakeTelegramAPI(t)
	defer server.Close()

	b := newWithAPI(api, new(dialog.MockReportStore))
	defer b.sessions.Close()

	// Telegram omits Message for callbacks on messages older than 48h.
	b.ProcessUpdate(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb",
		From: &tgbotapi.User{ID: 1, UserName: "tester"},
		Data: "rating:7",
	}})

	assert.Contains(t, methods(), "answerCallbackQuery")
	assert.NotContains(t, methods(), "sendMessage")
	assert.Equal(t, 0, b.sessions.Len())
}
