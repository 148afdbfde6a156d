package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/missionboard/missionboard/application/port/outbound"
	"github.com/missionboard/missionboard/domain/entity"
	"github.com/missionboard/missionboard/domain/valueobject"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockRefreshTokenStore struct {
	mock.Mock
}

func (m *MockRefreshTokenStore) Exists(ctx context.Context, subject string) (bool, error) {
	args := m.Called(ctx, subject)
	return args.Bool(0), args.Error(1)
}

func (m *MockRefreshTokenStore) Matches(ctx context.Context, subject, token string) (bool, error) {
	args := m.Called(ctx, subject, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockRefreshTokenStore) Upsert(ctx context.Context, subject, token string, expiresAt time.Time) error {
	return m.Called(ctx, subject, token, expiresAt).Error(0)
}

func (m *MockRefreshTokenStore) Touch(ctx context.Context, subject, token string) (bool, error) {
	args := m.Called(ctx, subject, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockRefreshTokenStore) Delete(ctx context.Context, subject string) error {
	return m.Called(ctx, subject).Error(0)
}

type MockTokenCodec struct {
	mock.Mock
}

func (m *MockTokenCodec) Issue(subject string, tokenType outbound.TokenType, ttl time.Duration) (*outbound.Token, error) {
	args := m.Called(subject, tokenType, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.Token), args.Error(1)
}

func (m *MockTokenCodec) Verify(token string) (*outbound.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.TokenClaims), args.Error(1)
}

type MockPasswordService struct {
	mock.Mock
}

func (m *MockPasswordService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordService) ComparePassword(hashedPassword, password string) error {
	return m.Called(hashedPassword, password).Error(0)
}

type MockRateLimitService struct {
	mock.Mock
}

func (m *MockRateLimitService) CheckLimit(ctx context.Context, key string, limit int) (bool, error) {
	args := m.Called(ctx, key, limit)
	return args.Bool(0), args.Error(1)
}

func (m *MockRateLimitService) Increment(ctx context.Context, key string, window time.Duration) error {
	return m.Called(ctx, key, window).Error(0)
}

func (m *MockRateLimitService) Block(ctx context.Context, key string, duration time.Duration, reason string) error {
	return m.Called(ctx, key, duration, reason).Error(0)
}

func (m *MockRateLimitService) IsBlocked(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockRateLimitService) Reset(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockPrincipalResolver struct {
	mock.Mock
}

func (m *MockPrincipalResolver) Resolve(ctx context.Context, subject string) (*valueobject.Principal, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*valueobject.Principal), args.Error(1)
}

type MockBoardRepository struct {
	mock.Mock
}

func (m *MockBoardRepository) Create(ctx context.Context, board *entity.Board) error {
	return m.Called(ctx, board).Error(0)
}

func (m *MockBoardRepository) FindByID(ctx context.Context, id string) (*entity.Board, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Board), args.Error(1)
}

func (m *MockBoardRepository) ListByCreator(ctx context.Context, userID string) ([]*entity.Board, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Board), args.Error(1)
}

func (m *MockBoardRepository) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockColumnRepository struct {
	mock.Mock
}

func (m *MockColumnRepository) Create(ctx context.Context, column *entity.Column) error {
	return m.Called(ctx, column).Error(0)
}

func (m *MockColumnRepository) FindByID(ctx context.Context, id string) (*entity.Column, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Column), args.Error(1)
}

func (m *MockColumnRepository) ListByBoard(ctx context.Context, boardID string) ([]*entity.Column, error) {
	args := m.Called(ctx, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Column), args.Error(1)
}

func (m *MockColumnRepository) CountByBoard(ctx context.Context, boardID string) (int64, error) {
	args := m.Called(ctx, boardID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockColumnRepository) ExistsByBoardAndName(ctx context.Context, boardID, name string) (bool, error) {
	args := m.Called(ctx, boardID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockColumnRepository) Move(ctx context.Context, column *entity.Column, sequence int64) error {
	return m.Called(ctx, column, sequence).Error(0)
}

func (m *MockColumnRepository) SoftDelete(ctx context.Context, column *entity.Column) error {
	return m.Called(ctx, column).Error(0)
}

type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Create(ctx context.Context, card *entity.Card) error {
	return m.Called(ctx, card).Error(0)
}

func (m *MockCardRepository) FindByID(ctx context.Context, id string) (*entity.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Card), args.Error(1)
}

func (m *MockCardRepository) Update(ctx context.Context, card *entity.Card) error {
	return m.Called(ctx, card).Error(0)
}

func (m *MockCardRepository) CountByColumn(ctx context.Context, columnID string) (int64, error) {
	args := m.Called(ctx, columnID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCardRepository) ListByBoard(ctx context.Context, boardID string) ([]*entity.Card, error) {
	args := m.Called(ctx, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Card), args.Error(1)
}

func (m *MockCardRepository) SoftDelete(ctx context.Context, card *entity.Card) error {
	return m.Called(ctx, card).Error(0)
}

func (m *MockCardRepository) AddWorker(ctx context.Context, cardID, userID string) error {
	return m.Called(ctx, cardID, userID).Error(0)
}

func (m *MockCardRepository) IsWorker(ctx context.Context, cardID, userID string) (bool, error) {
	args := m.Called(ctx, cardID, userID)
	return args.Bool(0), args.Error(1)
}
