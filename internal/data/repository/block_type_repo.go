package repository

import (
	"context"
	"fmt"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BlockTypeRepository interface {
	Create(ctx context.Context, bt *entity.BlockType) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.BlockType, error)
	FindByIdentifier(ctx context.Context, identifier string) (*entity.BlockType, error)
	FindAll(ctx context.Context, activeOnly bool) ([]*entity.BlockType, error)
	Update(ctx context.Context, bt *entity.BlockType) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type blockTypeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBlockTypeRepository(db database.PgxIface, log *zap.Logger) BlockTypeRepository {
	return &blockTypeRepository{
		db:  db,
		log: log.With(zap.String("repository", "block_type")),
	}
}

const blockTypeColumns = `id, name, identifier, event_type_id, size, cost,
	       duration_months, duration_weeks, active, created_at, updated_at, deleted_at`

func scanBlockType(row pgx.Row) (*entity.BlockType, error) {
	var bt entity.BlockType
	err := row.Scan(
		&bt.ID,
		&bt.Name,
		&bt.Identifier,
		&bt.EventTypeID,
		&bt.Size,
		&bt.Cost,
		&bt.DurationMonths,
		&bt.DurationWeeks,
		&bt.Active,
		&bt.CreatedAt,
		&bt.UpdatedAt,
		&bt.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &bt, nil
}

func (r *blockTypeRepository) Create(ctx context.Context, bt *entity.BlockType) error {
	query := `
		INSERT INTO block_types (id, name, identifier, event_type_id, size, cost,
		                        duration_months, duration_weeks, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		bt.ID,
		bt.Name,
		bt.Identifier,
		bt.EventTypeID,
		bt.Size,
		bt.Cost,
		bt.DurationMonths,
		bt.DurationWeeks,
		bt.Active,
		bt.CreatedAt,
		bt.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create block type",
			zap.Error(err),
			zap.String("name", bt.Name),
		)
		return fmt.Errorf("create block type %s: %w", bt.Name, err)
	}

	return nil
}

func (r *blockTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.BlockType, error) {
	query := `
		SELECT ` + blockTypeColumns + `
		FROM block_types
		WHERE id = $1 AND deleted_at IS NULL
	`

	bt, err := scanBlockType(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find block type",
			zap.Error(err),
			zap.String("block_type_id", id.String()),
		)
		return nil, fmt.Errorf("find block type %s: %w", id.String(), err)
	}

	return bt, nil
}

func (r *blockTypeRepository) FindByIdentifier(ctx context.Context, identifier string) (*entity.BlockType, error) {
	query := `
		SELECT ` + blockTypeColumns + `
		FROM block_types
		WHERE identifier = $1 AND deleted_at IS NULL
	`

	bt, err := scanBlockType(r.db.QueryRow(ctx, query, identifier))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find block type by identifier",
			zap.Error(err),
			zap.String("identifier", identifier),
		)
		return nil, fmt.Errorf("find block type by identifier %s: %w", identifier, err)
	}

	return bt, nil
}

func (r *blockTypeRepository) FindAll(ctx context.Context, activeOnly bool) ([]*entity.BlockType, error) {
	query := `
		SELECT ` + blockTypeColumns + `
		FROM block_types
		WHERE deleted_at IS NULL AND ($1 = FALSE OR active = TRUE)
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, activeOnly)
	if err != nil {
		r.log.Error("Failed to list block types", zap.Error(err))
		return nil, fmt.Errorf("list block types: %w", err)
	}
	defer rows.Close()

	var types []*entity.BlockType
	for rows.Next() {
		bt, err := scanBlockType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan block type: %w", err)
		}
		types = append(types, bt)
	}

	return types, rows.Err()
}

func (r *blockTypeRepository) Update(ctx context.Context, bt *entity.BlockType) error {
	query := `
		UPDATE block_types
		SET name = $2, identifier = $3, event_type_id = $4, size = $5, cost = $6,
		    duration_months = $7, duration_weeks = $8, active = $9, updated_at = $10
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		bt.ID,
		bt.Name,
		bt.Identifier,
		bt.EventTypeID,
		bt.Size,
		bt.Cost,
		bt.DurationMonths,
		bt.DurationWeeks,
		bt.Active,
		time.Now(),
	)

	if err != nil {
		r.log.Error("Failed to update block type",
			zap.Error(err),
			zap.String("block_type_id", bt.ID.String()),
		)
		return fmt.Errorf("update block type %s: %w", bt.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("block type %s not found", bt.ID.String())
	}

	return nil
}

func (r *blockTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE block_types
		SET deleted_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, time.Now())
	if err != nil {
		r.log.Error("Failed to delete block type",
			zap.Error(err),
			zap.String("block_type_id", id.String()),
		)
		return fmt.Errorf("delete block type %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("block type %s not found", id.String())
	}

	return nil
}
