package entity

import (
	"errors"
	"time"
)

var (
	ErrCardNotFound    = errors.New("card not found")
	ErrNotCardWorker   = errors.New("user is not a worker on this card")
	ErrAlreadyInvited  = errors.New("user is already a worker on this card")
	ErrInvalidSequence = errors.New("sequence out of range")
	ErrEmptyName       = errors.New("name is required")
)

// Card lives in a column; sequence is its 1-based position among the
// column's non-deleted cards.
type Card struct {
	ID          string     `json:"id"`
	ColumnID    string     `json:"column_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Color       string     `json:"color"`
	Sequence    int64      `json:"sequence"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedBy   string     `json:"created_by"`
	Deleted     bool       `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewCard(id, columnID, name, description, color string, sequence int64, deadline *time.Time, createdBy string) *Card {
	now := time.Now()
	return &Card{
		ID:          id,
		ColumnID:    columnID,
		Name:        name,
		Description: description,
		Color:       color,
		Sequence:    sequence,
		Deadline:    deadline,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CardUpdate carries the optional fields of a card edit; nil fields are left alone.
type CardUpdate struct {
	Name        *string
	Description *string
	Color       *string
	Deadline    *time.Time
}

func (c *Card) Apply(u CardUpdate) error {
	if u.Name != nil {
		if *u.Name == "" {
			return ErrEmptyName
		}
		c.Name = *u.Name
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.Color != nil {
		c.Color = *u.Color
	}
	if u.Deadline != nil {
		d := *u.Deadline
		c.Deadline = &d
	}
	c.UpdatedAt = time.Now()
	return nil
}

func (c *Card) Delete() {
	c.Deleted = true
	c.UpdatedAt = time.Now()
}
