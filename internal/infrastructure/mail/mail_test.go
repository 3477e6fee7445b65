package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/cuadre/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSender struct {
	sent []Message
}

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return nil
}

func TestNewSender(t *testing.T) {
	logger := zap.NewNop()

	s, err := NewSender(config.MailConfig{}, logger)
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, s)

	s, err = NewSender(config.MailConfig{Provider: "Resend", ResendAPIKey: "re_test", From: "no-reply@cuadre.app"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &ResendSender{}, s)

	_, err = NewSender(config.MailConfig{Provider: "resend"}, logger)
	assert.Error(t, err)

	_, err = NewSender(config.MailConfig{Provider: "smtp"}, logger)
	assert.Error(t, err)
}

func TestResetMailer(t *testing.T) {
	rec := &recordingSender{}
	m := NewResetMailer(rec, config.MailConfig{
		ResetURLFormat: "https://cuadre.app/reset?token=%s",
		ResetTokenTTL:  time.Hour,
	})

	require.NoError(t, m.SendPasswordReset(context.Background(), "ana@example.com", "tok123"))
	require.Len(t, rec.sent, 1)
	msg := rec.sent[0]
	assert.Equal(t, "ana@example.com", msg.To)
	assert.Contains(t, msg.Text, "https://cuadre.app/reset?token=tok123")
	assert.Contains(t, msg.Text, "1h0m0s")
	assert.Contains(t, msg.HTML, `href="https://cuadre.app/reset?token=tok123"`)
}

func TestLogSender(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := NewLogSender(zap.New(core))

	require.NoError(t, s.Send(context.Background(), Message{To: "a@b.c", Subject: "hi"}))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "a@b.c", logs.All()[0].ContextMap()["to"])
}

func TestResendSender_Send(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer srv.Close()

	s, err := NewResendSender("re_test", "no-reply@cuadre.app")
	require.NoError(t, err)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	s.client.BaseURL = base

	require.NoError(t, s.Send(context.Background(), Message{To: "ana@example.com", Subject: "Reset", Text: "link"}))
	assert.Equal(t, "no-reply@cuadre.app", got["from"])
	assert.Equal(t, []any{"ana@example.com"}, got["to"])
}
