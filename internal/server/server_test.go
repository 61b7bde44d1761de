package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

type capturingHandler struct {
	updates []tgbotapi.Update
}

func (h *capturingHandler) ProcessUpdate(update tgbotapi.Update) {
	h.updates = append(h.updates, update)
}

func TestServer_WebhookDeliversUpdate(t *testing.T) {
	handler := &capturingHandler{}
	srv := New(":0", handler)

	body := `{"update_id":7,"message":{"message_id":1,"text":"привет","chat":{"id":100},"from":{"id":42}}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, handler.updates, 1)
	assert.Equal(t, 7, handler.updates[0].UpdateID)
	assert.Equal(t, "привет", handler.updates[0].Message.Text)
}

func TestServer_WebhookRejectsGarbage(t *testing.T) {
	handler := &capturingHandler{}
	srv := New(":0", handler)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, handler.updates)
}

func TestServer_Healthz(t *testing.T) {
	srv := New(":0", &capturingHandler{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestServer_MetricsExposed(t *testing.T) {
	SetSessionSource(func() int { return 3 })
	srv := New(":0", &capturingHandler{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "reportbot_active_sessions 3")
}
