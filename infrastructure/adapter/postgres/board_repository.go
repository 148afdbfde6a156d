package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/missionboard/missionboard/domain/entity"
)

type BoardRepositoryAdapter struct {
	db *sql.DB
}

func NewBoardRepositoryAdapter(db *sql.DB) *BoardRepositoryAdapter {
	return &BoardRepositoryAdapter{db: db}
}

const boardColumns = `id, name, description, color, created_by, is_deleted, created_at, updated_at`

func scanBoard(row interface{ Scan(...interface{}) error }) (*entity.Board, error) {
	var b entity.Board
	if err := row.Scan(&b.ID, &b.Name, &b.Description, &b.Color, &b.CreatedBy, &b.Deleted, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BoardRepositoryAdapter) Create(ctx context.Context, board *entity.Board) error {
	query := `
		INSERT INTO boards (id, name, description, color, created_by, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		board.ID, board.Name, board.Description, board.Color, board.CreatedBy, board.Deleted, board.CreatedAt, board.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}
	return nil
}

func (r *BoardRepositoryAdapter) FindByID(ctx context.Context, id string) (*entity.Board, error) {
	query := `SELECT ` + boardColumns + ` FROM boards WHERE id = $1 AND is_deleted = FALSE`

	board, err := scanBoard(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}
	return board, nil
}

func (r *BoardRepositoryAdapter) ListByCreator(ctx context.Context, userID string) ([]*entity.Board, error) {
	query := `SELECT ` + boardColumns + ` FROM boards WHERE created_by = $1 AND is_deleted = FALSE ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer rows.Close()

	boards := make([]*entity.Board, 0)
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

func (r *BoardRepositoryAdapter) SoftDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE boards SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return entity.ErrBoardNotFound
	}
	return nil
}

type ColumnRepositoryAdapter struct {
	db *sql.DB
}

func NewColumnRepositoryAdapter(db *sql.DB) *ColumnRepositoryAdapter {
	return &ColumnRepositoryAdapter{db: db}
}

const columnColumns = `id, board_id, name, sequence, is_deleted, created_at, updated_at`

func scanColumn(row interface{ Scan(...interface{}) error }) (*entity.Column, error) {
	var c entity.Column
	if err := row.Scan(&c.ID, &c.BoardID, &c.Name, &c.Sequence, &c.Deleted, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ColumnRepositoryAdapter) Create(ctx context.Context, column *entity.Column) error {
	query := `
		INSERT INTO board_columns (id, board_id, name, sequence, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		column.ID, column.BoardID, column.Name, column.Sequence, column.Deleted, column.CreatedAt, column.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrDuplicateColumnName
		}
		return fmt.Errorf("failed to create column: %w", err)
	}
	return nil
}

func (r *ColumnRepositoryAdapter) FindByID(ctx context.Context, id string) (*entity.Column, error) {
	query := `SELECT ` + columnColumns + ` FROM board_columns WHERE id = $1 AND is_deleted = FALSE`

	column, err := scanColumn(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrColumnNotFound
		}
		return nil, fmt.Errorf("failed to find column: %w", err)
	}
	return column, nil
}

func (r *ColumnRepositoryAdapter) ListByBoard(ctx context.Context, boardID string) ([]*entity.Column, error) {
	query := `SELECT ` + columnColumns + ` FROM board_columns WHERE board_id = $1 AND is_deleted = FALSE ORDER BY sequence`

	rows, err := r.db.QueryContext(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	defer rows.Close()

	columns := make([]*entity.Column, 0)
	for rows.Next() {
		c, err := scanColumn(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		columns = append(columns, c)
	}
	return columns, rows.Err()
}

func (r *ColumnRepositoryAdapter) CountByBoard(ctx context.Context, boardID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM board_columns WHERE board_id = $1 AND is_deleted = FALSE`, boardID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count columns: %w", err)
	}
	return n, nil
}

func (r *ColumnRepositoryAdapter) ExistsByBoardAndName(ctx context.Context, boardID, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM board_columns WHERE board_id = $1 AND name = $2 AND is_deleted = FALSE)`,
		boardID, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check column name: %w", err)
	}
	return exists, nil
}

func (r *ColumnRepositoryAdapter) Move(ctx context.Context, column *entity.Column, sequence int64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var shift string
		if sequence < column.Sequence {
			shift = `UPDATE board_columns SET sequence = sequence + 1, updated_at = NOW()
				WHERE board_id = $1 AND is_deleted = FALSE AND sequence >= $2 AND sequence < $3`
			if _, err := tx.ExecContext(ctx, shift, column.BoardID, sequence, column.Sequence); err != nil {
				return fmt.Errorf("failed to shift columns: %w", err)
			}
		} else {
			shift = `UPDATE board_columns SET sequence = sequence - 1, updated_at = NOW()
				WHERE board_id = $1 AND is_deleted = FALSE AND sequence > $2 AND sequence <= $3`
			if _, err := tx.ExecContext(ctx, shift, column.BoardID, column.Sequence, sequence); err != nil {
				return fmt.Errorf("failed to shift columns: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `UPDATE board_columns SET sequence = $1, updated_at = NOW() WHERE id = $2`, sequence, column.ID); err != nil {
			return fmt.Errorf("failed to move column: %w", err)
		}
		return nil
	})
}

func (r *ColumnRepositoryAdapter) SoftDelete(ctx context.Context, column *entity.Column) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE board_columns SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1`, column.ID); err != nil {
			return fmt.Errorf("failed to delete column: %w", err)
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE board_columns SET sequence = sequence - 1, updated_at = NOW()
			WHERE board_id = $1 AND is_deleted = FALSE AND sequence > $2`,
			column.BoardID, column.Sequence,
		)
		if err != nil {
			return fmt.Errorf("failed to shift columns: %w", err)
		}
		return nil
	})
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
