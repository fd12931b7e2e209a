package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Freeeeeet/glee_portal/internal/model"
	"github.com/Freeeeeet/glee_portal/internal/repository/base"
)

// AuditionLogWriter is what the legacy migration needs inside its transaction.
type AuditionLogWriter interface {
	Count(ctx context.Context) (int64, error)
	InsertIfSlotFree(ctx context.Context, log *model.AuditionLog) (bool, error)
}

// AuditionLogRepository stores the canonical booking records.
type AuditionLogRepository struct {
	*base.Repository
}

func NewAuditionLogRepository(q base.Querier) *AuditionLogRepository {
	return &AuditionLogRepository{Repository: base.NewRepository(q)}
}

const auditionLogColumns = `id, window_family_id, subject_name, contact_email, contact_phone, scheduled_date::text,
	scheduled_time, status, status_changed_by, status_changed_at, voice_part, notes, legacy_id, created_at`

func scanAuditionLog(row pgx.Row) (*model.AuditionLog, error) {
	l := &model.AuditionLog{}
	err := row.Scan(
		&l.ID,
		&l.WindowFamilyID,
		&l.SubjectName,
		&l.ContactEmail,
		&l.ContactPhone,
		&l.ScheduledDate,
		&l.ScheduledTime,
		&l.Status,
		&l.StatusChangedBy,
		&l.StatusChangedAt,
		&l.VoicePart,
		&l.Notes,
		&l.LegacyID,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// InsertIfSlotFree inserts log unless a non-cancelled record already holds
// its slot, and reports whether the row was written. Within a window family
// the partial unique index decides, so two concurrent callers cannot both
// win. A row without a family (migrated legacy data) holds its (date, time)
// in every family, which the NOT EXISTS guard enforces.
func (r *AuditionLogRepository) InsertIfSlotFree(ctx context.Context, log *model.AuditionLog) (bool, error) {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	query := `
		INSERT INTO audition_logs (id, window_family_id, subject_name, contact_email, contact_phone,
			scheduled_date, scheduled_time, status, voice_part, notes, legacy_id)
		SELECT $1::uuid, $2::uuid, $3::text, $4::text, $5::text,
			$6::date, $7::text, $8::text, $9::text, $10::text, $11::uuid
		WHERE NOT EXISTS (
			SELECT 1 FROM audition_logs
			WHERE scheduled_date = $6::date
				AND scheduled_time = $7::text
				AND status <> 'cancelled'
				AND (window_family_id = $12::uuid OR $2::uuid = $12::uuid)
		)
		ON CONFLICT (window_family_id, scheduled_date, scheduled_time) WHERE status <> 'cancelled'
		DO NOTHING
		RETURNING created_at
	`

	err := r.QueryRow(ctx, query,
		log.ID,
		log.WindowFamilyID,
		log.SubjectName,
		log.ContactEmail,
		log.ContactPhone,
		log.ScheduledDate,
		log.ScheduledTime,
		log.Status,
		log.VoicePart,
		log.Notes,
		log.LegacyID,
		uuid.Nil,
	).Scan(&log.CreatedAt)

	if base.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert audition log: %w", err)
	}

	return true, nil
}

// GetAll returns every record ordered by slot.
func (r *AuditionLogRepository) GetAll(ctx context.Context) ([]*model.AuditionLog, error) {
	query := `SELECT ` + auditionLogColumns + `
		FROM audition_logs
		ORDER BY scheduled_date, scheduled_time, created_at
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get audition logs: %w", err)
	}
	defer rows.Close()

	var logs []*model.AuditionLog
	for rows.Next() {
		l, err := scanAuditionLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audition log: %w", err)
		}
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audition logs: %w", err)
	}

	return logs, nil
}

func (r *AuditionLogRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.QueryRow(ctx, `SELECT COUNT(*) FROM audition_logs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count audition logs: %w", err)
	}
	return n, nil
}

// UpdateStatus reports false when no record has id.
func (r *AuditionLogRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AuditionStatus, changedBy *uuid.UUID, changedAt time.Time) (bool, error) {
	affected, err := r.ExecAffected(ctx, `
		UPDATE audition_logs
		SET status = $1, status_changed_by = $2, status_changed_at = $3
		WHERE id = $4
	`, status, changedBy, changedAt, id)
	if err != nil {
		return false, fmt.Errorf("update audition log status: %w", err)
	}
	return affected > 0, nil
}

// Delete removes the record for good.
func (r *AuditionLogRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM audition_logs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete audition log: %w", err)
	}
	return affected > 0, nil
}
