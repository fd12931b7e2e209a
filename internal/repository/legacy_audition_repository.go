package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/glee_portal/internal/model"
	"github.com/Freeeeeet/glee_portal/internal/repository/base"
)

type LegacyAuditionReader interface {
	GetAll(ctx context.Context) ([]*model.LegacyAudition, error)
}

// LegacyAuditionRepository reads the pre-migration gw_auditions table.
type LegacyAuditionRepository struct {
	*base.Repository
}

func NewLegacyAuditionRepository(q base.Querier) *LegacyAuditionRepository {
	return &LegacyAuditionRepository{Repository: base.NewRepository(q)}
}

func (r *LegacyAuditionRepository) GetAll(ctx context.Context) ([]*model.LegacyAudition, error) {
	query := `
		SELECT id, full_name, COALESCE(email, ''), COALESCE(phone, ''), audition_date,
			COALESCE(audition_time, ''), COALESCE(status, ''), COALESCE(voice_part, ''), created_at
		FROM gw_auditions
		ORDER BY created_at, id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get legacy auditions: %w", err)
	}
	defer rows.Close()

	var out []*model.LegacyAudition
	for rows.Next() {
		a := &model.LegacyAudition{}
		err := rows.Scan(
			&a.ID,
			&a.FullName,
			&a.Email,
			&a.Phone,
			&a.AuditionDate,
			&a.AuditionTime,
			&a.Status,
			&a.VoicePart,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan legacy audition: %w", err)
		}
		out = append(out, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate legacy auditions: %w", err)
	}

	return out, nil
}
