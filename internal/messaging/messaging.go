// Package messaging holds the outbound message providers of the portal.
package messaging

import (
	"context"
	"errors"
	"fmt"
)

// ErrRecipientRejected marks a send the provider refused for that address
// only. It says nothing about the provider's health.
var ErrRecipientRejected = errors.New("recipient rejected")

// RejectRecipient wraps err as ErrRecipientRejected.
func RejectRecipient(err error) error {
	return fmt.Errorf("%w: %w", ErrRecipientRejected, err)
}

// Message is one outbound notification. Providers without a subject or HTML
// body use Text.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a message to one address and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, to string, msg Message) (string, error)
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, to string, msg Message) (string, error)

func (f SenderFunc) Send(ctx context.Context, to string, msg Message) (string, error) {
	return f(ctx, to, msg)
}
