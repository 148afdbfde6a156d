package entity

import (
	"errors"
	"time"
)

var (
	ErrBoardNotFound           = errors.New("board not found")
	ErrNotBoardOwner           = errors.New("only the board owner can modify the board")
	ErrColumnNotFound          = errors.New("column not found")
	ErrDuplicateColumnName     = errors.New("column name already exists on board")
	ErrColumnSequenceUnchanged = errors.New("column sequence did not change")
)

// Board groups ordered columns.
type Board struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedBy   string    `json:"created_by"`
	Deleted     bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewBoard(id, name, description, color, createdBy string) *Board {
	now := time.Now()
	return &Board{
		ID:          id,
		Name:        name,
		Description: description,
		Color:       color,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (b *Board) IsOwnedBy(userID string) bool {
	return b.CreatedBy == userID
}

func (b *Board) Delete() {
	b.Deleted = true
	b.UpdatedAt = time.Now()
}

// Column is an ordered lane inside a board. Sequence starts at 1.
type Column struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"board_id"`
	Name      string    `json:"name"`
	Sequence  int64     `json:"sequence"`
	Deleted   bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewColumn(id, boardID, name string, sequence int64) *Column {
	now := time.Now()
	return &Column{
		ID:        id,
		BoardID:   boardID,
		Name:      name,
		Sequence:  sequence,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MoveTo validates a sequence change against the current number of columns.
func (c *Column) MoveTo(sequence, last int64) error {
	if sequence == c.Sequence {
		return ErrColumnSequenceUnchanged
	}
	if sequence < 1 || sequence > last {
		return ErrInvalidSequence
	}
	return nil
}
