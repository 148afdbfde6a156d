package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/missionboard/missionboard/application/port/inbound"
	"github.com/missionboard/missionboard/application/port/outbound"
	"github.com/missionboard/missionboard/domain/entity"
	"github.com/missionboard/missionboard/domain/valueobject"
)

type ColumnUseCase struct {
	boardRepo  outbound.BoardRepository
	columnRepo outbound.ColumnRepository
}

func NewColumnUseCase(boardRepo outbound.BoardRepository, columnRepo outbound.ColumnRepository) *ColumnUseCase {
	return &ColumnUseCase{boardRepo: boardRepo, columnRepo: columnRepo}
}

func (uc *ColumnUseCase) CreateColumn(ctx context.Context, principal *valueobject.Principal, boardID string, req inbound.CreateColumnRequest) (*entity.Column, error) {
	board, err := ownedBoard(ctx, uc.boardRepo, principal, boardID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, entity.ErrEmptyName
	}
	exists, err := uc.columnRepo.ExistsByBoardAndName(ctx, board.ID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, entity.ErrDuplicateColumnName
	}

	count, err := uc.columnRepo.CountByBoard(ctx, board.ID)
	if err != nil {
		return nil, err
	}

	column := entity.NewColumn(uuid.NewString(), board.ID, name, count+1)
	if err := uc.columnRepo.Create(ctx, column); err != nil {
		return nil, err
	}
	return column, nil
}

func (uc *ColumnUseCase) ListColumns(ctx context.Context, principal *valueobject.Principal, boardID string) ([]*entity.Column, error) {
	board, err := ownedBoard(ctx, uc.boardRepo, principal, boardID)
	if err != nil {
		return nil, err
	}
	return uc.columnRepo.ListByBoard(ctx, board.ID)
}

func (uc *ColumnUseCase) MoveColumn(ctx context.Context, principal *valueobject.Principal, columnID string, req inbound.MoveColumnRequest) (*entity.Column, error) {
	column, err := uc.ownedColumn(ctx, principal, columnID)
	if err != nil {
		return nil, err
	}

	last, err := uc.columnRepo.CountByBoard(ctx, column.BoardID)
	if err != nil {
		return nil, err
	}
	if err := column.MoveTo(req.Sequence, last); err != nil {
		return nil, err
	}

	if err := uc.columnRepo.Move(ctx, column, req.Sequence); err != nil {
		return nil, err
	}
	column.Sequence = req.Sequence
	return column, nil
}

func (uc *ColumnUseCase) DeleteColumn(ctx context.Context, principal *valueobject.Principal, columnID string) error {
	column, err := uc.ownedColumn(ctx, principal, columnID)
	if err != nil {
		return err
	}
	return uc.columnRepo.SoftDelete(ctx, column)
}

func (uc *ColumnUseCase) ownedColumn(ctx context.Context, principal *valueobject.Principal, columnID string) (*entity.Column, error) {
	if principal == nil {
		return nil, inbound.ErrAuthenticationRequired
	}
	column, err := uc.columnRepo.FindByID(ctx, columnID)
	if err != nil {
		return nil, err
	}
	if column.Deleted {
		return nil, entity.ErrColumnNotFound
	}
	if _, err := ownedBoard(ctx, uc.boardRepo, principal, column.BoardID); err != nil {
		return nil, err
	}
	return column, nil
}
