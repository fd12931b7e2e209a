package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Freeeeeet/glee_portal/internal/model"
	"github.com/Freeeeeet/glee_portal/internal/repository/base"
)

// NotificationAuditRepository appends delivery outcomes to notification_audit_log.
type NotificationAuditRepository struct {
	*base.Repository
}

func NewNotificationAuditRepository(q base.Querier) *NotificationAuditRepository {
	return &NotificationAuditRepository{Repository: base.NewRepository(q)}
}

// Append writes all entries with one COPY.
func (r *NotificationAuditRepository) Append(ctx context.Context, entries []model.NotificationAuditEntry) error {
	if len(entries) == 0 {
		return nil
	}

	columns := []string{"job_id", "channel", "address", "success", "provider_message_id", "error", "sender_user_id"}
	_, err := r.Querier().CopyFrom(ctx,
		pgx.Identifier{"notification_audit_log"},
		columns,
		pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
			e := entries[i]
			return []any{e.JobID, string(e.Channel), e.Address, e.Success, e.ProviderMessageID, e.Error, e.SenderUserID}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("append notification audit: %w", err)
	}
	return nil
}
