package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Freeeeeet/glee_portal/internal/model"
	"github.com/Freeeeeet/glee_portal/internal/repository/base"
)

// TimeWindowRepository stores audition time blocks.
type TimeWindowRepository struct {
	*base.Repository
}

func NewTimeWindowRepository(q base.Querier) *TimeWindowRepository {
	return &TimeWindowRepository{Repository: base.NewRepository(q)}
}

const timeWindowColumns = `id, family_id, start_instant, end_instant, slot_duration_minutes, recurrence, is_active, created_at, updated_at`

// Create inserts a window. A nil FamilyID makes the window its own family.
func (r *TimeWindowRepository) Create(ctx context.Context, w *model.TimeWindow) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.FamilyID == uuid.Nil {
		w.FamilyID = w.ID
	}

	query := `
		INSERT INTO audition_time_blocks (id, family_id, start_instant, end_instant, slot_duration_minutes, recurrence, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(ctx, query,
		w.ID,
		w.FamilyID,
		w.StartInstant,
		w.EndInstant,
		w.SlotDurationMinutes,
		w.Recurrence,
		w.IsActive,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create time window: %w", err)
	}

	return nil
}

// GetActive returns active windows ordered by start.
func (r *TimeWindowRepository) GetActive(ctx context.Context) ([]*model.TimeWindow, error) {
	query := `SELECT ` + timeWindowColumns + `
		FROM audition_time_blocks
		WHERE is_active = true
		ORDER BY start_instant, id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get active time windows: %w", err)
	}
	defer rows.Close()

	var windows []*model.TimeWindow
	for rows.Next() {
		w := &model.TimeWindow{}
		err := rows.Scan(
			&w.ID,
			&w.FamilyID,
			&w.StartInstant,
			&w.EndInstant,
			&w.SlotDurationMinutes,
			&w.Recurrence,
			&w.IsActive,
			&w.CreatedAt,
			&w.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan time window: %w", err)
		}
		windows = append(windows, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time windows: %w", err)
	}

	return windows, nil
}

// Deactivate retires a window. Windows are never deleted.
func (r *TimeWindowRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	affected, err := r.ExecAffected(ctx, `
		UPDATE audition_time_blocks
		SET is_active = false, updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("deactivate time window: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("time window not found")
	}
	return nil
}
