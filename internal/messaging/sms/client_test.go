package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/glee_portal/internal/messaging"
)

func TestClient_Send(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+14045551234", r.PostForm.Get("To"))
		assert.Equal(t, "+14045550000", r.PostForm.Get("From"))
		assert.Equal(t, "Glee Club: Ada - rehearsal at 6", r.PostForm.Get("Body"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM42","status":"queued"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, AccountSID: "AC123", AuthToken: "secret", From: "+14045550000"}, srv.Client())

	id, err := c.Send(context.Background(), "+14045551234", messaging.Message{Text: "Glee Club: Ada - rehearsal at 6"})
	require.NoError(t, err)
	assert.Equal(t, "SM42", id)
}

func TestClient_SendProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"The 'To' number is not a valid phone number."}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, AccountSID: "AC123", AuthToken: "secret"}, srv.Client())

	_, err := c.Send(context.Background(), "+1", messaging.Message{Text: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid phone number")
	assert.ErrorIs(t, err, messaging.ErrRecipientRejected)
}

func TestClient_SendProviderFaultIsNotRecipientRejection(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		c := NewClient(Config{BaseURL: srv.URL, AccountSID: "AC123", AuthToken: "secret"}, srv.Client())
		_, err := c.Send(context.Background(), "+14045551234", messaging.Message{Text: "hi"})
		srv.Close()

		require.Error(t, err, status)
		assert.NotErrorIs(t, err, messaging.ErrRecipientRejected, status)
	}
}

func TestClient_SendNotConfigured(t *testing.T) {
	c := NewClient(Config{}, nil)
	_, err := c.Send(context.Background(), "+14045551234", messaging.Message{Text: "hi"})
	assert.Error(t, err)
}
