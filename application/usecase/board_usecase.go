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

type BoardUseCase struct {
	boardRepo outbound.BoardRepository
}

func NewBoardUseCase(boardRepo outbound.BoardRepository) *BoardUseCase {
	return &BoardUseCase{boardRepo: boardRepo}
}

func (uc *BoardUseCase) CreateBoard(ctx context.Context, principal *valueobject.Principal, req inbound.CreateBoardRequest) (*entity.Board, error) {
	if principal == nil {
		return nil, inbound.ErrAuthenticationRequired
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, entity.ErrEmptyName
	}

	board := entity.NewBoard(uuid.NewString(), name, req.Description, req.Color, principal.UserID)
	if err := uc.boardRepo.Create(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

func (uc *BoardUseCase) GetBoard(ctx context.Context, principal *valueobject.Principal, boardID string) (*entity.Board, error) {
	return ownedBoard(ctx, uc.boardRepo, principal, boardID)
}

func (uc *BoardUseCase) ListBoards(ctx context.Context, principal *valueobject.Principal) ([]*entity.Board, error) {
	if principal == nil {
		return nil, inbound.ErrAuthenticationRequired
	}
	return uc.boardRepo.ListByCreator(ctx, principal.UserID)
}

func (uc *BoardUseCase) DeleteBoard(ctx context.Context, principal *valueobject.Principal, boardID string) error {
	board, err := ownedBoard(ctx, uc.boardRepo, principal, boardID)
	if err != nil {
		return err
	}
	return uc.boardRepo.SoftDelete(ctx, board.ID)
}

// ownedBoard loads a live board and checks the caller created it.
func ownedBoard(ctx context.Context, repo outbound.BoardRepository, principal *valueobject.Principal, boardID string) (*entity.Board, error) {
	if principal == nil {
		return nil, inbound.ErrAuthenticationRequired
	}
	board, err := repo.FindByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board.Deleted {
		return nil, entity.ErrBoardNotFound
	}
	if !board.IsOwnedBy(principal.UserID) {
		return nil, entity.ErrNotBoardOwner
	}
	return board, nil
}
