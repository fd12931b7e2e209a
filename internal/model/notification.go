package model

import (
	"time"

	"github.com/google/uuid"
)

type Channel string

const (
	ChannelSMS      Channel = "sms"
	ChannelEmail    Channel = "email"
	ChannelTelegram Channel = "telegram"
)

// DeliveryResult is the outcome of one send inside a fan-out.
type DeliveryResult struct {
	Address           string `json:"address"`
	Success           bool   `json:"success"`
	ProviderMessageID string `json:"provider_message_id,omitempty"`
	Error             string `json:"error,omitempty"`
}

// NotificationAuditEntry is one row of notification_audit_log.
type NotificationAuditEntry struct {
	ID                int64      `json:"id"`
	JobID             uuid.UUID  `json:"job_id"`
	Channel           Channel    `json:"channel"`
	Address           string     `json:"address"`
	Success           bool       `json:"success"`
	ProviderMessageID string     `json:"provider_message_id"`
	Error             string     `json:"error"`
	SenderUserID      *uuid.UUID `json:"sender_user_id"`
	CreatedAt         time.Time  `json:"created_at"`
}
