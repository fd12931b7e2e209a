package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/glee_portal/internal/model"
	"github.com/Freeeeeet/glee_portal/internal/repository/base"
)

type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(q base.Querier) *AppointmentRepository {
	return &AppointmentRepository{Repository: base.NewRepository(q)}
}

// GetByProviderBetween returns appointments of provider starting in [from, to).
func (r *AppointmentRepository) GetByProviderBetween(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT id, provider_id, client_name, COALESCE(client_email, ''), COALESCE(client_phone, ''),
			starts_at, duration_minutes, status, status_changed_by, status_changed_at, created_at
		FROM gw_appointments
		WHERE provider_id = $1 AND starts_at >= $2 AND starts_at < $3
		ORDER BY starts_at
	`

	rows, err := r.Query(ctx, query, providerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get appointments: %w", err)
	}
	defer rows.Close()

	var out []*model.Appointment
	for rows.Next() {
		a := &model.Appointment{}
		err := rows.Scan(
			&a.ID,
			&a.ProviderID,
			&a.ClientName,
			&a.ClientEmail,
			&a.ClientPhone,
			&a.StartsAt,
			&a.DurationMinutes,
			&a.Status,
			&a.StatusChangedBy,
			&a.StatusChangedAt,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		out = append(out, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}

	return out, nil
}

// UpdateStatus reports false when no appointment has id.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, changedBy *uuid.UUID, changedAt time.Time) (bool, error) {
	affected, err := r.ExecAffected(ctx, `
		UPDATE gw_appointments
		SET status = $1, status_changed_by = $2, status_changed_at = $3
		WHERE id = $4
	`, status, changedBy, changedAt, id)
	if err != nil {
		return false, fmt.Errorf("update appointment status: %w", err)
	}
	return affected > 0, nil
}

// GetAvailability returns the active weekly windows of provider.
func (r *AppointmentRepository) GetAvailability(ctx context.Context, providerID uuid.UUID) ([]*model.ProviderAvailability, error) {
	query := `
		SELECT id, provider_id, weekday, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), is_active
		FROM gw_provider_availability
		WHERE provider_id = $1 AND is_active = true
		ORDER BY weekday, start_time
	`

	rows, err := r.Query(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("get provider availability: %w", err)
	}
	defer rows.Close()

	var out []*model.ProviderAvailability
	for rows.Next() {
		a := &model.ProviderAvailability{}
		if err := rows.Scan(&a.ID, &a.ProviderID, &a.Weekday, &a.StartTime, &a.EndTime, &a.IsActive); err != nil {
			return nil, fmt.Errorf("scan provider availability: %w", err)
		}
		out = append(out, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate provider availability: %w", err)
	}

	return out, nil
}
