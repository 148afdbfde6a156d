package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/missionboard/missionboard/application/port/inbound"
	"github.com/missionboard/missionboard/domain/entity"
)

func ownBoard() *entity.Board {
	return entity.NewBoard("board-1", "Sprint", "", "#fff", "user-123")
}

func TestBoardUseCase_CreateBoard(t *testing.T) {
	ctx := context.Background()
	boards := new(MockBoardRepository)
	uc := NewBoardUseCase(boards)

	boards.On("Create", ctx, mock.MatchedBy(func(b *entity.Board) bool {
		return b.Name == "Sprint" && b.CreatedBy == "user-123"
	})).Return(nil)

	board, err := uc.CreateBoard(ctx, testPrincipal(), inbound.CreateBoardRequest{Name: " Sprint "})

	require.NoError(t, err)
	assert.Equal(t, "Sprint", board.Name)
	boards.AssertExpectations(t)
}

func TestBoardUseCase_CreateBoard_EmptyName(t *testing.T) {
	uc := NewBoardUseCase(new(MockBoardRepository))

	_, err := uc.CreateBoard(context.Background(), testPrincipal(), inbound.CreateBoardRequest{})

	assert.ErrorIs(t, err, entity.ErrEmptyName)
}

func TestBoardUseCase_GetBoard(t *testing.T) {
	ctx := context.Background()

	t.Run("owner", func(t *testing.T) {
		boards := new(MockBoardRepository)
		boards.On("FindByID", ctx, "board-1").Return(ownBoard(), nil)

		board, err := NewBoardUseCase(boards).GetBoard(ctx, testPrincipal(), "board-1")

		require.NoError(t, err)
		assert.Equal(t, "board-1", board.ID)
	})

	t.Run("not owner", func(t *testing.T) {
		boards := new(MockBoardRepository)
		other := ownBoard()
		other.CreatedBy = "someone-else"
		boards.On("FindByID", ctx, "board-1").Return(other, nil)

		_, err := NewBoardUseCase(boards).GetBoard(ctx, testPrincipal(), "board-1")

		assert.ErrorIs(t, err, entity.ErrNotBoardOwner)
	})

	t.Run("deleted", func(t *testing.T) {
		boards := new(MockBoardRepository)
		gone := ownBoard()
		gone.Delete()
		boards.On("FindByID", ctx, "board-1").Return(gone, nil)

		_, err := NewBoardUseCase(boards).GetBoard(ctx, testPrincipal(), "board-1")

		assert.ErrorIs(t, err, entity.ErrBoardNotFound)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := NewBoardUseCase(new(MockBoardRepository)).GetBoard(ctx, nil, "board-1")

		assert.ErrorIs(t, err, inbound.ErrAuthenticationRequired)
	})
}

func TestBoardUseCase_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	boards := new(MockBoardRepository)
	uc := NewBoardUseCase(boards)

	boards.On("ListByCreator", ctx, "user-123").Return([]*entity.Board{ownBoard()}, nil)
	boards.On("FindByID", ctx, "board-1").Return(ownBoard(), nil)
	boards.On("SoftDelete", ctx, "board-1").Return(nil)

	list, err := uc.ListBoards(ctx, testPrincipal())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, uc.DeleteBoard(ctx, testPrincipal(), "board-1"))
	boards.AssertExpectations(t)
}

func TestColumnUseCase_CreateColumn(t *testing.T) {
	ctx := context.Background()
	boards := new(MockBoardRepository)
	columns := new(MockColumnRepository)
	uc := NewColumnUseCase(boards, columns)

	boards.On("FindByID", ctx, "board-1").Return(ownBoard(), nil)
	columns.On("ExistsByBoardAndName", ctx, "board-1", "Todo").Return(false, nil)
	columns.On("CountByBoard", ctx, "board-1").Return(int64(2), nil)
	columns.On("Create", ctx, mock.AnythingOfType("*entity.Column")).Return(nil)

	column, err := uc.CreateColumn(ctx, testPrincipal(), "board-1", inbound.CreateColumnRequest{Name: "Todo"})

	require.NoError(t, err)
	assert.Equal(t, int64(3), column.Sequence)
	assert.Equal(t, "board-1", column.BoardID)
}

func TestColumnUseCase_CreateColumn_Duplicate(t *testing.T) {
	ctx := context.Background()
	boards := new(MockBoardRepository)
	columns := new(MockColumnRepository)

	boards.On("FindByID", ctx, "board-1").Return(ownBoard(), nil)
	columns.On("ExistsByBoardAndName", ctx, "board-1", "Todo").Return(true, nil)

	_, err := NewColumnUseCase(boards, columns).CreateColumn(ctx, testPrincipal(), "board-1", inbound.CreateColumnRequest{Name: "Todo"})

	assert.ErrorIs(t, err, entity.ErrDuplicateColumnName)
	columns.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestColumnUseCase_MoveColumn(t *testing.T) {
	ctx := context.Background()

	setup := func() (*MockColumnRepository, *ColumnUseCase) {
		boards := new(MockBoardRepository)
		columns := new(MockColumnRepository)
		boards.On("FindByID", ctx, "board-1").Return(ownBoard(), nil)
		columns.On("FindByID", ctx, "col-1").Return(entity.NewColumn("col-1", "board-1", "Todo", 2), nil)
		columns.On("CountByBoard", ctx, "board-1").Return(int64(3), nil)
		return columns, NewColumnUseCase(boards, columns)
	}

	t.Run("moves", func(t *testing.T) {
		columns, uc := setup()
		columns.On("Move", ctx, mock.AnythingOfType("*entity.Column"), int64(1)).Return(nil)

		column, err := uc.MoveColumn(ctx, testPrincipal(), "col-1", inbound.MoveColumnRequest{Sequence: 1})

		require.NoError(t, err)
		assert.Equal(t, int64(1), column.Sequence)
	})

	t.Run("unchanged", func(t *testing.T) {
		columns, uc := setup()

		_, err := uc.MoveColumn(ctx, testPrincipal(), "col-1", inbound.MoveColumnRequest{Sequence: 2})

		assert.ErrorIs(t, err, entity.ErrColumnSequenceUnchanged)
		columns.AssertNotCalled(t, "Move", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("out of range", func(t *testing.T) {
		_, uc := setup()

		_, err := uc.MoveColumn(ctx, testPrincipal(), "col-1", inbound.MoveColumnRequest{Sequence: 9})

		assert.ErrorIs(t, err, entity.ErrInvalidSequence)
	})
}

func TestColumnUseCase_DeleteColumn(t *testing.T) {
	ctx := context.Background()
	boards := new(MockBoardRepository)
	columns := new(MockColumnRepository)

	boards.On("FindByID", ctx, "board-1").Return(ownBoard(), nil)
	columns.On("FindByID", ctx, "col-1").Return(entity.NewColumn("col-1", "board-1", "Todo", 1), nil)
	columns.On("SoftDelete", ctx, mock.AnythingOfType("*entity.Column")).Return(nil)

	require.NoError(t, NewColumnUseCase(boards, columns).DeleteColumn(ctx, testPrincipal(), "col-1"))
	columns.AssertExpectations(t)
}
