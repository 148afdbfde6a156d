package inbound

import (
	"context"
	"time"

	"github.com/missionboard/missionboard/domain/entity"
	"github.com/missionboard/missionboard/domain/valueobject"
)

type CreateBoardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type BoardUseCase interface {
	CreateBoard(ctx context.Context, principal *valueobject.Principal, req CreateBoardRequest) (*entity.Board, error)
	GetBoard(ctx context.Context, principal *valueobject.Principal, boardID string) (*entity.Board, error)
	ListBoards(ctx context.Context, principal *valueobject.Principal) ([]*entity.Board, error)
	DeleteBoard(ctx context.Context, principal *valueobject.Principal, boardID string) error
}

type CreateColumnRequest struct {
	Name string `json:"name"`
}

type MoveColumnRequest struct {
	Sequence int64 `json:"sequence"`
}

type ColumnUseCase interface {
	CreateColumn(ctx context.Context, principal *valueobject.Principal, boardID string, req CreateColumnRequest) (*entity.Column, error)
	ListColumns(ctx context.Context, principal *valueobject.Principal, boardID string) ([]*entity.Column, error)
	MoveColumn(ctx context.Context, principal *valueobject.Principal, columnID string, req MoveColumnRequest) (*entity.Column, error)
	DeleteColumn(ctx context.Context, principal *valueobject.Principal, columnID string) error
}

type CreateCardRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Color       string     `json:"color"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

type UpdateCardRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Color       *string    `json:"color,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

type InviteWorkerRequest struct {
	Email string `json:"email"`
}

type CardUseCase interface {
	CreateCard(ctx context.Context, principal *valueobject.Principal, columnID string, req CreateCardRequest) (*entity.Card, error)
	GetCard(ctx context.Context, principal *valueobject.Principal, cardID string) (*entity.Card, error)
	UpdateCard(ctx context.Context, principal *valueobject.Principal, cardID string, req UpdateCardRequest) (*entity.Card, error)
	DeleteCard(ctx context.Context, principal *valueobject.Principal, cardID string) error
	ListCardsByBoard(ctx context.Context, principal *valueobject.Principal, boardID string) ([]*entity.Card, error)
	InviteWorker(ctx context.Context, principal *valueobject.Principal, cardID string, req InviteWorkerRequest) error
}
