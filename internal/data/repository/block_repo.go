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

type BlockRepository interface {
	Create(ctx context.Context, block *entity.Block) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Block, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Block, error)
	// FindCandidatesForBooking returns the user's paid, unexpired blocks
	// whose block type covers the given event type, soonest expiry first.
	// Credit exhaustion is checked by the caller.
	FindCandidatesForBooking(ctx context.Context, userID, eventTypeID uuid.UUID, now time.Time) ([]*entity.Block, error)
	Update(ctx context.Context, block *entity.Block) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type blockRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBlockRepository(db database.PgxIface, log *zap.Logger) BlockRepository {
	return &blockRepository{
		db:  db,
		log: log.With(zap.String("repository", "block")),
	}
}

func scanBlock(row pgx.Row) (*entity.Block, error) {
	var b entity.Block
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.BlockTypeID,
		&b.StartDate,
		&b.Paid,
		&b.ExpiryDate,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *blockRepository) Create(ctx context.Context, block *entity.Block) error {
	query := `
		INSERT INTO blocks (id, user_id, block_type_id, start_date, paid,
		                   expiry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		block.ID,
		block.UserID,
		block.BlockTypeID,
		block.StartDate,
		block.Paid,
		block.ExpiryDate,
		block.CreatedAt,
		block.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create block",
			zap.Error(err),
			zap.String("user_id", block.UserID.String()),
		)
		return fmt.Errorf("create block: %w", err)
	}

	return nil
}

func (r *blockRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Block, error) {
	query := `
		SELECT id, user_id, block_type_id, start_date, paid,
		       expiry_date, created_at, updated_at, deleted_at
		FROM blocks
		WHERE id = $1 AND deleted_at IS NULL
	`

	block, err := scanBlock(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find block",
			zap.Error(err),
			zap.String("block_id", id.String()),
		)
		return nil, fmt.Errorf("find block %s: %w", id.String(), err)
	}

	return block, nil
}

func (r *blockRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Block, error) {
	query := `
		SELECT id, user_id, block_type_id, start_date, paid,
		       expiry_date, created_at, updated_at, deleted_at
		FROM blocks
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY start_date DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list user blocks",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list blocks for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var blocks []*entity.Block
	for rows.Next() {
		block, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		blocks = append(blocks, block)
	}

	return blocks, rows.Err()
}

func (r *blockRepository) FindCandidatesForBooking(ctx context.Context, userID, eventTypeID uuid.UUID, now time.Time) ([]*entity.Block, error) {
	query := `
		SELECT b.id, b.user_id, b.block_type_id, b.start_date, b.paid,
		       b.expiry_date, b.created_at, b.updated_at, b.deleted_at
		FROM blocks b
		JOIN block_types bt ON bt.id = b.block_type_id
		WHERE b.user_id = $1
		  AND bt.event_type_id = $2
		  AND b.paid = TRUE
		  AND b.expiry_date > $3
		  AND b.deleted_at IS NULL
		ORDER BY b.expiry_date
	`

	rows, err := r.db.Query(ctx, query, userID, eventTypeID, now)
	if err != nil {
		r.log.Error("Failed to find candidate blocks",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find candidate blocks for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var blocks []*entity.Block
	for rows.Next() {
		block, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		blocks = append(blocks, block)
	}

	return blocks, rows.Err()
}

func (r *blockRepository) Update(ctx context.Context, block *entity.Block) error {
	query := `
		UPDATE blocks
		SET start_date = $2, paid = $3, expiry_date = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		block.ID,
		block.StartDate,
		block.Paid,
		block.ExpiryDate,
		time.Now(),
	)

	if err != nil {
		r.log.Error("Failed to update block",
			zap.Error(err),
			zap.String("block_id", block.ID.String()),
		)
		return fmt.Errorf("update block %s: %w", block.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("block %s not found", block.ID.String())
	}

	return nil
}

func (r *blockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE blocks
		SET deleted_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, time.Now())
	if err != nil {
		r.log.Error("Failed to delete block",
			zap.Error(err),
			zap.String("block_id", id.String()),
		)
		return fmt.Errorf("delete block %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("block %s not found", id.String())
	}

	return nil
}
