package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/missionboard/missionboard/domain/entity"
)

type CardRepositoryAdapter struct {
	db *sql.DB
}

func NewCardRepositoryAdapter(db *sql.DB) *CardRepositoryAdapter {
	return &CardRepositoryAdapter{db: db}
}

const cardColumns = `c.id, c.column_id, c.name, c.description, c.color, c.sequence, c.deadline, c.created_by, c.is_deleted, c.created_at, c.updated_at`

func scanCard(row interface{ Scan(...interface{}) error }) (*entity.Card, error) {
	var (
		c        entity.Card
		deadline sql.NullTime
	)
	err := row.Scan(&c.ID, &c.ColumnID, &c.Name, &c.Description, &c.Color, &c.Sequence,
		&deadline, &c.CreatedBy, &c.Deleted, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if deadline.Valid {
		c.Deadline = &deadline.Time
	}
	return &c, nil
}

func (r *CardRepositoryAdapter) Create(ctx context.Context, card *entity.Card) error {
	query := `
		INSERT INTO cards (id, column_id, name, description, color, sequence, deadline, created_by, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		card.ID, card.ColumnID, card.Name, card.Description, card.Color, card.Sequence,
		card.Deadline, card.CreatedBy, card.Deleted, card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

func (r *CardRepositoryAdapter) FindByID(ctx context.Context, id string) (*entity.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards c WHERE c.id = $1 AND c.is_deleted = FALSE`

	card, err := scanCard(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to find card: %w", err)
	}
	return card, nil
}

func (r *CardRepositoryAdapter) Update(ctx context.Context, card *entity.Card) error {
	query := `
		UPDATE cards SET name = $1, description = $2, color = $3, deadline = $4, updated_at = $5
		WHERE id = $6 AND is_deleted = FALSE
	`
	result, err := r.db.ExecContext(ctx, query, card.Name, card.Description, card.Color, card.Deadline, card.UpdatedAt, card.ID)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return entity.ErrCardNotFound
	}
	return nil
}

func (r *CardRepositoryAdapter) CountByColumn(ctx context.Context, columnID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE column_id = $1 AND is_deleted = FALSE`, columnID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return n, nil
}

func (r *CardRepositoryAdapter) ListByBoard(ctx context.Context, boardID string) ([]*entity.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards c
		JOIN board_columns bc ON bc.id = c.column_id
		WHERE bc.board_id = $1 AND bc.is_deleted = FALSE AND c.is_deleted = FALSE
		ORDER BY bc.sequence, c.sequence
	`
	rows, err := r.db.QueryContext(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	cards := make([]*entity.Card, 0)
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *CardRepositoryAdapter) SoftDelete(ctx context.Context, card *entity.Card) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE cards SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1`, card.ID); err != nil {
			return fmt.Errorf("failed to delete card: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM card_workers WHERE card_id = $1`, card.ID); err != nil {
			return fmt.Errorf("failed to remove card workers: %w", err)
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE cards SET sequence = sequence - 1, updated_at = NOW()
			WHERE column_id = $1 AND is_deleted = FALSE AND sequence > $2`,
			card.ColumnID, card.Sequence,
		)
		if err != nil {
			return fmt.Errorf("failed to shift cards: %w", err)
		}
		return nil
	})
}

func (r *CardRepositoryAdapter) AddWorker(ctx context.Context, cardID, userID string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO card_workers (card_id, user_id) VALUES ($1, $2)`, cardID, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrAlreadyInvited
		}
		return fmt.Errorf("failed to add card worker: %w", err)
	}
	return nil
}

func (r *CardRepositoryAdapter) IsWorker(ctx context.Context, cardID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM card_workers WHERE card_id = $1 AND user_id = $2)`,
		cardID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check card worker: %w", err)
	}
	return exists, nil
}
