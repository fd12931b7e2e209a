package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Freeeeeet/glee_portal/internal/model"
	"github.com/Freeeeeet/glee_portal/internal/repository/base"
)

// ProfileRepository reads member profiles.
type ProfileRepository struct {
	*base.Repository
}

func NewProfileRepository(q base.Querier) *ProfileRepository {
	return &ProfileRepository{Repository: base.NewRepository(q)}
}

const profileColumns = `user_id, COALESCE(full_name, ''), COALESCE(email, ''), COALESCE(phone_number, ''),
	COALESCE(telegram_chat_id, ''), role`

// GetByID returns nil, nil when the profile does not exist.
func (r *ProfileRepository) GetByID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	p := &model.Profile{}
	err := r.QueryRow(ctx, `SELECT `+profileColumns+` FROM gw_profiles WHERE user_id = $1`, userID).Scan(
		&p.UserID,
		&p.FullName,
		&p.Email,
		&p.PhoneNumber,
		&p.TelegramChatID,
		&p.Role,
	)
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by id: %w", err)
	}
	return p, nil
}

// GetByIDs returns the profiles that exist among ids. Missing ids are absent
// from the result.
func (r *ProfileRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.Query(ctx, `SELECT `+profileColumns+` FROM gw_profiles WHERE user_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get profiles by ids: %w", err)
	}
	defer rows.Close()

	var profiles []*model.Profile
	for rows.Next() {
		p := &model.Profile{}
		err := rows.Scan(
			&p.UserID,
			&p.FullName,
			&p.Email,
			&p.PhoneNumber,
			&p.TelegramChatID,
			&p.Role,
		)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	return profiles, nil
}
