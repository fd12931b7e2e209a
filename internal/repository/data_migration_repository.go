package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/glee_portal/internal/repository/base"
)

type MigrationMarker interface {
	IsApplied(ctx context.Context, name string) (bool, error)
	MarkApplied(ctx context.Context, name string, rows int) error
}

// DataMigrationRepository records one-off data migrations by name.
type DataMigrationRepository struct {
	*base.Repository
}

func NewDataMigrationRepository(q base.Querier) *DataMigrationRepository {
	return &DataMigrationRepository{Repository: base.NewRepository(q)}
}

func (r *DataMigrationRepository) IsApplied(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM data_migrations WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check data migration: %w", err)
	}
	return exists, nil
}

func (r *DataMigrationRepository) MarkApplied(ctx context.Context, name string, rows int) error {
	_, err := r.ExecAffected(ctx, `
		INSERT INTO data_migrations (name, rows_migrated)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
	`, name, rows)
	if err != nil {
		return fmt.Errorf("mark data migration: %w", err)
	}
	return nil
}
