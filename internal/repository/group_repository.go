package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Freeeeeet/glee_portal/internal/model"
	"github.com/Freeeeeet/glee_portal/internal/repository/base"
)

type GroupRepository struct {
	*base.Repository
}

func NewGroupRepository(q base.Querier) *GroupRepository {
	return &GroupRepository{Repository: base.NewRepository(q)}
}

// GetByID returns nil, nil when the group does not exist.
func (r *GroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	g := &model.Group{}
	err := r.QueryRow(ctx, `SELECT id, name FROM gw_groups WHERE id = $1`, id).Scan(&g.ID, &g.Name)
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group by id: %w", err)
	}
	return g, nil
}

// MemberIDs returns the user ids of the group in join order.
func (r *GroupRepository) MemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.Query(ctx, `
		SELECT user_id FROM gw_group_members
		WHERE group_id = $1
		ORDER BY joined_at, user_id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("get group members: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan group member: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate group members: %w", err)
	}

	return ids, nil
}
