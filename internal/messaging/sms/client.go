// Package sms sends text messages through a Twilio compatible REST API.
package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Freeeeeet/glee_portal/internal/messaging"
)

type Config struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	From       string
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.twilio.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, httpClient: httpClient}
}

type messageResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send posts one message and returns its SID.
func (c *Client) Send(ctx context.Context, to string, msg messaging.Message) (string, error) {
	if c.cfg.AccountSID == "" || c.cfg.AuthToken == "" {
		return "", errors.New("sms client is not configured")
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.cfg.From)
	form.Set("Body", msg.Text)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.cfg.BaseURL, url.PathEscape(c.cfg.AccountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build sms request: %w", err)
	}
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	var body messageResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("sms provider status %d", resp.StatusCode)
		if decodeErr == nil && body.Message != "" {
			err = fmt.Errorf("sms provider status %d: %s", resp.StatusCode, body.Message)
		}
		if recipientFault(resp.StatusCode) {
			return "", messaging.RejectRecipient(err)
		}
		return "", err
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode sms response: %w", decodeErr)
	}

	return body.SID, nil
}

// recipientFault reports whether status means the provider refused this one
// message. Credential, account and rate limit errors concern every send.
func recipientFault(status int) bool {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusTooManyRequests:
		return false
	}
	return status >= 400 && status < 500
}
