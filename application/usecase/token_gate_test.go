package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/missionboard/missionboard/application/port/inbound"
	"github.com/missionboard/missionboard/application/port/outbound"
	"github.com/missionboard/missionboard/domain/valueobject"
	"github.com/missionboard/missionboard/infrastructure/adapter/memory"
	"github.com/missionboard/missionboard/infrastructure/service/logger"
)

const testSubject = "test@example.com"

type gateFixture struct {
	codec    *MockTokenCodec
	store    *MockRefreshTokenStore
	resolver *MockPrincipalResolver
	gate     *TokenGate
}

func newGateFixture() *gateFixture {
	f := &gateFixture{
		codec:    new(MockTokenCodec),
		store:    new(MockRefreshTokenStore),
		resolver: new(MockPrincipalResolver),
	}
	f.gate = NewTokenGate(f.codec, f.store, f.resolver, logger.NewNop(), 30*time.Minute)
	return f
}

func claimsOf(tokenType outbound.TokenType, exp time.Time) *outbound.TokenClaims {
	return &outbound.TokenClaims{Subject: testSubject, Type: tokenType, IssuedAt: exp.Add(-time.Hour), ExpiresAt: exp}
}

func testPrincipal() *valueobject.Principal {
	return &valueobject.Principal{UserID: "user-123", Subject: testSubject, Authorities: []string{"ROLE_USER"}}
}

func TestTokenGate_ValidAccessToken(t *testing.T) {
	ctx := context.Background()
	f := newGateFixture()

	f.codec.On("Verify", "access").Return(claimsOf(outbound.TokenTypeAccess, time.Now().Add(time.Minute)), nil)
	f.resolver.On("Resolve", ctx, testSubject).Return(testPrincipal(), nil)

	decision, err := f.gate.Authorize(ctx, "access", "refresh")

	require.NoError(t, err)
	assert.Equal(t, "user-123", decision.Principal.UserID)
	assert.Nil(t, decision.Rotated)
	f.store.AssertNotCalled(t, "Matches", mock.Anything, mock.Anything, mock.Anything)
}

func TestTokenGate_PrincipalNotFound(t *testing.T) {
	ctx := context.Background()
	f := newGateFixture()

	f.codec.On("Verify", "access").Return(claimsOf(outbound.TokenTypeAccess, time.Now().Add(time.Minute)), nil)
	f.resolver.On("Resolve", ctx, testSubject).Return(nil, inbound.ErrPrincipalNotFound)

	decision, err := f.gate.Authorize(ctx, "access", "")

	assert.Nil(t, decision)
	assert.ErrorIs(t, err, inbound.ErrAuthenticationRejected)
	assert.ErrorIs(t, err, inbound.ErrPrincipalNotFound)
}

func TestTokenGate_ExpiredAccessWithCurrentRefreshRotatesAndRejects(t *testing.T) {
	ctx := context.Background()
	f := newGateFixture()
	refreshExp := time.Now().Add(24 * time.Hour)
	newAccess := &outbound.Token{Value: "new-access", Type: outbound.TokenTypeAccess, ExpiresAt: time.Now().Add(30 * time.Minute)}

	f.codec.On("Verify", "expired").Return(nil, fmt.Errorf("%w: exp", outbound.ErrTokenExpired))
	f.codec.On("Verify", "refresh").Return(claimsOf(outbound.TokenTypeRefresh, refreshExp), nil)
	f.store.On("Matches", ctx, testSubject, "refresh").Return(true, nil)
	f.codec.On("Issue", testSubject, outbound.TokenTypeAccess, 30*time.Minute).Return(newAccess, nil)
	f.store.On("Touch", ctx, testSubject, "refresh").Return(true, nil)

	decision, err := f.gate.Authorize(ctx, "expired", "refresh")

	assert.ErrorIs(t, err, inbound.ErrAuthenticationRejected)
	assert.ErrorIs(t, err, outbound.ErrTokenExpired)
	require.NotNil(t, decision)
	assert.Nil(t, decision.Principal)
	require.NotNil(t, decision.Rotated)
	assert.Equal(t, "new-access", decision.Rotated.AccessToken)
	assert.Equal(t, "refresh", decision.Rotated.RefreshToken)
	f.resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	f.store.AssertExpectations(t)
}

func TestTokenGate_RefreshOnlyRotatesAndProceeds(t *testing.T) {
	ctx := context.Background()
	f := newGateFixture()
	refreshExp := time.Now().Add(24 * time.Hour)

	f.codec.On("Verify", "refresh").Return(claimsOf(outbound.TokenTypeRefresh, refreshExp), nil)
	f.store.On("Matches", ctx, testSubject, "refresh").Return(true, nil)
	f.codec.On("Issue", testSubject, outbound.TokenTypeAccess, 30*time.Minute).Return(&outbound.Token{Value: "new-access"}, nil)
	f.store.On("Touch", ctx, testSubject, "refresh").Return(true, nil)

	decision, err := f.gate.Authorize(ctx, "", "refresh")

	require.NoError(t, err)
	assert.Nil(t, decision.Principal)
	assert.Equal(t, "new-access", decision.Rotated.AccessToken)
}

func TestTokenGate_SupersededRefreshRejected(t *testing.T) {
	ctx := context.Background()
	f := newGateFixture()

	f.codec.On("Verify", "expired").Return(nil, outbound.ErrTokenExpired)
	f.codec.On("Verify", "old-refresh").Return(claimsOf(outbound.TokenTypeRefresh, time.Now().Add(time.Hour)), nil)
	f.store.On("Matches", ctx, testSubject, "old-refresh").Return(false, nil)

	decision, err := f.gate.Authorize(ctx, "expired", "old-refresh")

	assert.Nil(t, decision)
	assert.ErrorIs(t, err, inbound.ErrAuthenticationRejected)
	assert.ErrorIs(t, err, inbound.ErrRefreshNotCurrent)
	f.codec.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "Touch", mock.Anything, mock.Anything, mock.Anything)
}

func TestTokenGate_RefreshRevokedBeforeTouchRejected(t *testing.T) {
	ctx := context.Background()
	f := newGateFixture()

	f.codec.On("Verify", "refresh").Return(claimsOf(outbound.TokenTypeRefresh, time.Now().Add(time.Hour)), nil)
	f.store.On("Matches", ctx, testSubject, "refresh").Return(true, nil)
	f.store.On("Touch", ctx, testSubject, "refresh").Return(false, nil)

	decision, err := f.gate.Authorize(ctx, "", "refresh")

	assert.Nil(t, decision)
	assert.ErrorIs(t, err, inbound.ErrAuthenticationRejected)
	assert.ErrorIs(t, err, inbound.ErrRefreshNotCurrent)
	f.codec.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// interleavingStore runs a competing write right after Matches succeeds.
type interleavingStore struct {
	outbound.RefreshTokenStore
	interleave func(ctx context.Context)
}

func (s *interleavingStore) Matches(ctx context.Context, subject, token string) (bool, error) {
	ok, err := s.RefreshTokenStore.Matches(ctx, subject, token)
	if ok && s.interleave != nil {
		s.interleave(ctx)
	}
	return ok, err
}

func TestTokenGate_ConcurrentWriteDuringRotation(t *testing.T) {
	refreshExp := time.Now().Add(time.Hour)

	tests := []struct {
		name       string
		interleave func(ctx context.Context, store outbound.RefreshTokenStore) error
		current    string
	}{
		{
			name: "logout stays revoked",
			interleave: func(ctx context.Context, store outbound.RefreshTokenStore) error {
				return store.Delete(ctx, testSubject)
			},
		},
		{
			name: "newer login keeps its token",
			interleave: func(ctx context.Context, store outbound.RefreshTokenStore) error {
				return store.Upsert(ctx, testSubject, "refresh-2", refreshExp)
			},
			current: "refresh-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mem := memory.NewRefreshTokenStore()
			defer mem.Close()
			require.NoError(t, mem.Upsert(ctx, testSubject, "refresh", refreshExp))

			codec := new(MockTokenCodec)
			codec.On("Verify", "refresh").Return(claimsOf(outbound.TokenTypeRefresh, refreshExp), nil)
			store := &interleavingStore{
				RefreshTokenStore: mem,
				interleave: func(ctx context.Context) {
					require.NoError(t, tt.interleave(ctx, mem))
				},
			}
			gate := NewTokenGate(codec, store, new(MockPrincipalResolver), logger.NewNop(), 30*time.Minute)

			decision, err := gate.Authorize(ctx, "", "refresh")

			assert.Nil(t, decision)
			assert.ErrorIs(t, err, inbound.ErrRefreshNotCurrent)
			codec.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)

			stale, err := mem.Matches(ctx, testSubject, "refresh")
			require.NoError(t, err)
			assert.False(t, stale)

			if tt.current != "" {
				ok, err := mem.Matches(ctx, testSubject, tt.current)
				require.NoError(t, err)
				assert.True(t, ok)
			}
		})
	}
}

func TestTokenGate_InvalidAccessWithoutRefreshRejected(t *testing.T) {
	f := newGateFixture()

	f.codec.On("Verify", "tampered").Return(nil, outbound.ErrTokenSignatureInvalid)

	decision, err := f.gate.Authorize(context.Background(), "tampered", "")

	assert.Nil(t, decision)
	assert.ErrorIs(t, err, inbound.ErrAuthenticationRejected)
	assert.ErrorIs(t, err, outbound.ErrTokenSignatureInvalid)
}

func TestTokenGate_InvalidAccessAndInvalidRefreshRejected(t *testing.T) {
	f := newGateFixture()

	f.codec.On("Verify", "expired").Return(nil, outbound.ErrTokenExpired)
	f.codec.On("Verify", "bad-refresh").Return(nil, outbound.ErrTokenMalformed)

	_, err := f.gate.Authorize(context.Background(), "expired", "bad-refresh")

	assert.ErrorIs(t, err, inbound.ErrAuthenticationRejected)
	f.store.AssertNotCalled(t, "Matches", mock.Anything, mock.Anything, mock.Anything)
}

func TestTokenGate_NoTokensProceedsAnonymously(t *testing.T) {
	f := newGateFixture()

	decision, err := f.gate.Authorize(context.Background(), "", "")

	require.NoError(t, err)
	assert.Nil(t, decision.Principal)
	assert.Nil(t, decision.Rotated)
	f.codec.AssertNotCalled(t, "Verify", mock.Anything)
}

func TestTokenGate_InvalidRefreshAloneIgnored(t *testing.T) {
	f := newGateFixture()

	f.codec.On("Verify", "garbage").Return(nil, outbound.ErrTokenMalformed)

	decision, err := f.gate.Authorize(context.Background(), "", "garbage")

	require.NoError(t, err)
	assert.Nil(t, decision.Principal)
	assert.Nil(t, decision.Rotated)
}

func TestTokenGate_TypeConfusion(t *testing.T) {
	ctx := context.Background()

	t.Run("refresh token as access token", func(t *testing.T) {
		f := newGateFixture()
		f.codec.On("Verify", "refresh").Return(claimsOf(outbound.TokenTypeRefresh, time.Now().Add(time.Hour)), nil)

		_, err := f.gate.Authorize(ctx, "refresh", "")

		assert.ErrorIs(t, err, inbound.ErrAuthenticationRejected)
		f.resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	})

	t.Run("access token as refresh token", func(t *testing.T) {
		f := newGateFixture()
		f.codec.On("Verify", "access").Return(claimsOf(outbound.TokenTypeAccess, time.Now().Add(time.Hour)), nil)

		decision, err := f.gate.Authorize(ctx, "", "access")

		require.NoError(t, err)
		assert.Nil(t, decision.Rotated)
		f.store.AssertNotCalled(t, "Matches", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTokenGate_StoreErrorSurfaces(t *testing.T) {
	ctx := context.Background()
	f := newGateFixture()
	dbErr := errors.New("db down")

	f.codec.On("Verify", "refresh").Return(claimsOf(outbound.TokenTypeRefresh, time.Now().Add(time.Hour)), nil)
	f.store.On("Matches", ctx, testSubject, "refresh").Return(false, dbErr)

	_, err := f.gate.Authorize(ctx, "", "refresh")

	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, inbound.ErrAuthenticationRejected)
}
