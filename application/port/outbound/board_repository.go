package outbound

import (
	"context"

	"github.com/missionboard/missionboard/domain/entity"
)

type BoardRepository interface {
	Create(ctx context.Context, board *entity.Board) error
	FindByID(ctx context.Context, id string) (*entity.Board, error)
	ListByCreator(ctx context.Context, userID string) ([]*entity.Board, error)
	SoftDelete(ctx context.Context, id string) error
}

type ColumnRepository interface {
	Create(ctx context.Context, column *entity.Column) error
	FindByID(ctx context.Context, id string) (*entity.Column, error)
	ListByBoard(ctx context.Context, boardID string) ([]*entity.Column, error)
	CountByBoard(ctx context.Context, boardID string) (int64, error)
	ExistsByBoardAndName(ctx context.Context, boardID, name string) (bool, error)
	// Move places the column at sequence and shifts the columns in between.
	Move(ctx context.Context, column *entity.Column, sequence int64) error
	// SoftDelete removes the column and closes the gap it leaves.
	SoftDelete(ctx context.Context, column *entity.Column) error
}

type CardRepository interface {
	Create(ctx context.Context, card *entity.Card) error
	FindByID(ctx context.Context, id string) (*entity.Card, error)
	Update(ctx context.Context, card *entity.Card) error
	CountByColumn(ctx context.Context, columnID string) (int64, error)
	ListByBoard(ctx context.Context, boardID string) ([]*entity.Card, error)
	// SoftDelete removes the card, its workers, and closes the sequence gap.
	SoftDelete(ctx context.Context, card *entity.Card) error
	AddWorker(ctx context.Context, cardID, userID string) error
	IsWorker(ctx context.Context, cardID, userID string) (bool, error)
}
