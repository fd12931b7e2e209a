package email

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/Freeeeeet/glee_portal/internal/messaging"
)

func TestBuildMIME_PlainText(t *testing.T) {
	raw := BuildMIME("club@example.com", "ada@example.com", messaging.Message{Subject: "Rehearsal", Text: "6pm"})

	assert.Contains(t, raw, "From: club@example.com\r\n")
	assert.Contains(t, raw, "To: ada@example.com\r\n")
	assert.Contains(t, raw, "Subject: Rehearsal\r\n")
	assert.Contains(t, raw, "text/plain")
	assert.NotContains(t, raw, "multipart")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\n6pm"))
}

func TestBuildMIME_Alternative(t *testing.T) {
	raw := BuildMIME("", "ada@example.com", messaging.Message{Subject: "Rehearsal", Text: "6pm", HTML: "<p>6pm</p>"})

	assert.NotContains(t, raw, "From:")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Less(t, strings.Index(raw, "text/plain"), strings.Index(raw, "text/html"))
	assert.Contains(t, raw, "<p>6pm</p>")
	assert.True(t, strings.HasSuffix(raw, "--"+boundary+"--\r\n"))
}

func TestGmailSender_Send(t *testing.T) {
	var gotRaw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "/users/me/messages/send")

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var msg gmail.Message
		require.NoError(t, json.Unmarshal(body, &msg))
		decoded, err := base64.URLEncoding.DecodeString(msg.Raw)
		require.NoError(t, err)
		gotRaw = string(decoded)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg-1"}`))
	}))
	defer srv.Close()

	service, err := gmail.NewService(context.Background(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication())
	require.NoError(t, err)

	sender := NewGmailSenderWithService(service, "club@example.com")
	id, err := sender.Send(context.Background(), "ada@example.com", messaging.Message{Subject: "Hi", Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	assert.Contains(t, gotRaw, "To: ada@example.com")
}

func TestGmailSender_SendInvalidRecipient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"Invalid To header"}}`))
	}))
	defer srv.Close()

	service, err := gmail.NewService(context.Background(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication())
	require.NoError(t, err)

	sender := NewGmailSenderWithService(service, "club@example.com")
	_, err = sender.Send(context.Background(), "not-an-address", messaging.Message{Subject: "Hi", Text: "hello"})
	require.Error(t, err)
	assert.ErrorIs(t, err, messaging.ErrRecipientRejected)
}
