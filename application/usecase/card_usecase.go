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

// CardUseCase manages cards. Only workers on a card may read or change it;
// the creator is its first worker.
type CardUseCase struct {
	userRepo   outbound.UserRepository
	boardRepo  outbound.BoardRepository
	columnRepo outbound.ColumnRepository
	cardRepo   outbound.CardRepository
}

func NewCardUseCase(
	userRepo outbound.UserRepository,
	boardRepo outbound.BoardRepository,
	columnRepo outbound.ColumnRepository,
	cardRepo outbound.CardRepository,
) *CardUseCase {
	return &CardUseCase{
		userRepo:   userRepo,
		boardRepo:  boardRepo,
		columnRepo: columnRepo,
		cardRepo:   cardRepo,
	}
}

func (uc *CardUseCase) CreateCard(ctx context.Context, principal *valueobject.Principal, columnID string, req inbound.CreateCardRequest) (*entity.Card, error) {
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

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, entity.ErrEmptyName
	}

	count, err := uc.cardRepo.CountByColumn(ctx, column.ID)
	if err != nil {
		return nil, err
	}

	card := entity.NewCard(uuid.NewString(), column.ID, name, req.Description, req.Color, count+1, req.Deadline, principal.UserID)
	if err := uc.cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}
	if err := uc.cardRepo.AddWorker(ctx, card.ID, principal.UserID); err != nil {
		return nil, err
	}
	return card, nil
}

func (uc *CardUseCase) GetCard(ctx context.Context, principal *valueobject.Principal, cardID string) (*entity.Card, error) {
	return uc.workerCard(ctx, principal, cardID)
}

func (uc *CardUseCase) UpdateCard(ctx context.Context, principal *valueobject.Principal, cardID string, req inbound.UpdateCardRequest) (*entity.Card, error) {
	card, err := uc.workerCard(ctx, principal, cardID)
	if err != nil {
		return nil, err
	}

	if err := card.Apply(entity.CardUpdate{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Deadline:    req.Deadline,
	}); err != nil {
		return nil, err
	}

	if err := uc.cardRepo.Update(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (uc *CardUseCase) DeleteCard(ctx context.Context, principal *valueobject.Principal, cardID string) error {
	card, err := uc.workerCard(ctx, principal, cardID)
	if err != nil {
		return err
	}
	return uc.cardRepo.SoftDelete(ctx, card)
}

func (uc *CardUseCase) ListCardsByBoard(ctx context.Context, principal *valueobject.Principal, boardID string) ([]*entity.Card, error) {
	if principal == nil {
		return nil, inbound.ErrAuthenticationRequired
	}
	board, err := uc.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board.Deleted {
		return nil, entity.ErrBoardNotFound
	}
	return uc.cardRepo.ListByBoard(ctx, board.ID)
}

func (uc *CardUseCase) InviteWorker(ctx context.Context, principal *valueobject.Principal, cardID string, req inbound.InviteWorkerRequest) error {
	card, err := uc.workerCard(ctx, principal, cardID)
	if err != nil {
		return err
	}

	invitee, err := uc.userRepo.FindByEmail(ctx, valueobject.NormalizeEmail(req.Email))
	if err != nil {
		return err
	}

	already, err := uc.cardRepo.IsWorker(ctx, card.ID, invitee.ID)
	if err != nil {
		return err
	}
	if already {
		return entity.ErrAlreadyInvited
	}
	return uc.cardRepo.AddWorker(ctx, card.ID, invitee.ID)
}

func (uc *CardUseCase) workerCard(ctx context.Context, principal *valueobject.Principal, cardID string) (*entity.Card, error) {
	if principal == nil {
		return nil, inbound.ErrAuthenticationRequired
	}
	card, err := uc.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.Deleted {
		return nil, entity.ErrCardNotFound
	}

	ok, err := uc.cardRepo.IsWorker(ctx, card.ID, principal.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, entity.ErrNotCardWorker
	}
	return card, nil
}
