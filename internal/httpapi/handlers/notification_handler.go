package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/glee_portal/internal/model"
	"github.com/Freeeeeet/glee_portal/internal/notify"
)

type Notifier interface {
	Send(ctx context.Context, req notify.Request) (*notify.Result, error)
}

type NotificationHandler struct {
	notifier Notifier
	logger   *zap.Logger
}

func NewNotificationHandler(notifier Notifier, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifier: notifier, logger: logger}
}

func (h *NotificationHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /functions/v1/send-sms-notification", h.handle(model.ChannelSMS))
	mux.HandleFunc("POST /functions/v1/gw-send-email", h.handle(model.ChannelEmail))
	mux.HandleFunc("POST /functions/v1/send-telegram-notification", h.handle(model.ChannelTelegram))
}

// notificationRequest accepts the payloads the web client already sends.
// Fields it attaches for its own bookkeeping (formSubmissionId, replyTo, ...)
// are ignored.
type notificationRequest struct {
	Recipients   stringList `json:"recipients"`
	PhoneNumbers stringList `json:"phoneNumbers"`
	To           stringList `json:"to"`
	GroupID      string     `json:"groupId"`
	Subject      string     `json:"subject"`
	Message      string     `json:"message"`
	Text         string     `json:"text"`
	HTML         string     `json:"html"`
	SenderName   string     `json:"senderName"`
}

// stringList decodes a JSON string or an array of strings.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one != "" {
			*l = stringList{one}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

func (h *NotificationHandler) handle(channel model.Channel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body notificationRequest
		if !decodeLooseJSON(w, r, &body) {
			return
		}

		raw := make([]string, 0, len(body.Recipients)+len(body.PhoneNumbers)+len(body.To))
		raw = append(raw, body.Recipients...)
		raw = append(raw, body.PhoneNumbers...)
		raw = append(raw, body.To...)

		// a group id that is not a uuid names an ad hoc list, the addresses
		// come with the request
		var groupID *uuid.UUID
		if body.GroupID != "" {
			if id, err := uuid.Parse(body.GroupID); err == nil {
				groupID = &id
			} else {
				h.logger.Debug("Group id is not a uuid, not expanded", zap.String("group_id", body.GroupID))
			}
		}

		message := body.Message
		if message == "" {
			message = body.Text
		}

		res, err := h.notifier.Send(r.Context(), notify.Request{
			Channel:    channel,
			Recipients: notify.ParseRecipients(raw),
			GroupID:    groupID,
			Subject:    body.Subject,
			Message:    message,
			HTML:       body.HTML,
			SenderName: body.SenderName,
			Credential: bearer(r),
		})
		if err != nil {
			h.logger.Warn("Notification request failed", zap.String("channel", string(channel)), zap.Error(err))
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, res)
	}
}
