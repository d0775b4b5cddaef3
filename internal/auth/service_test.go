package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type authFixture struct {
	users     *memUserStore
	tokens    *memTokenStore
	service   *Service
	validator *Validator
	clock     *testClock
}

func newFixture(t *testing.T) *authFixture {
	t.Helper()

	users := newMemUserStore()
	tokens := newMemTokenStore(users)
	issuer, err := NewTokenIssuer(testSecret, time.Hour, 7*24*time.Hour, tokens)
	require.NoError(t, err)

	validator, err := NewValidator(testSecret, users)
	require.NoError(t, err)

	service := NewService(users, tokens, issuer)

	clock := newTestClock(time.Now())
	service.now = clock.Now
	issuer.now = clock.Now

	return &authFixture{
		users:     users,
		tokens:    tokens,
		service:   service,
		validator: validator,
		clock:     clock,
	}
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.service.Register(ctx, "a@x.com", "password123", "A")
	require.NoError(t, err)
	require.True(t, result.IsValid)
	require.NotNil(t, result.Data)
	require.NotEmpty(t, result.Data.AccessToken)
	require.NotEmpty(t, result.Data.RefreshToken)
	require.Equal(t, "a@x.com", result.Data.User.Email)
	require.NotEqual(t, "password123", result.Data.User.Password)

	// The fresh pair works immediately.
	user, err := f.validator.Validate(ctx, result.Data.AccessToken)
	require.NoError(t, err)
	require.Equal(t, result.Data.User.ID, user.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.Register(ctx, "a@x.com", "password123", "A")
	require.NoError(t, err)
	require.True(t, first.IsValid)

	second, err := f.service.Register(ctx, "a@x.com", "password123", "A")
	require.NoError(t, err)
	require.False(t, second.IsValid)
	require.True(t, errors.Is(second.Err, ErrEmailTaken))
	require.Nil(t, second.Data)
}

func TestRegister_ShortPassword(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	result, err := f.service.Register(context.Background(), "b@x.com", "short1", "B")
	require.NoError(t, err)
	require.False(t, result.IsValid)
	require.True(t, errors.Is(result.Err, ErrPasswordTooShort))

	// No user record was created.
	_, err = f.users.FindByEmail(context.Background(), "b@x.com")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	reg, err := f.service.Register(ctx, "a@x.com", "password123", "A")
	require.NoError(t, err)
	tokensBefore := len(f.tokens.tokens)

	result, err := f.service.Login(ctx, "a@x.com", "wrong-password")
	require.NoError(t, err)
	require.False(t, result.IsValid)
	require.True(t, errors.Is(result.Err, ErrInvalidCredentials))

	// No token mutation: the registration refresh token is untouched and
	// nothing new was issued.
	require.Len(t, f.tokens.tokens, tokensBefore)
	record, ok := f.tokens.get(reg.Data.RefreshToken)
	require.True(t, ok)
	require.False(t, record.Revoked)
}

func TestLogin_UnknownEmailSameRejection(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	result, err := f.service.Login(context.Background(), "nobody@x.com", "password123")
	require.NoError(t, err)
	require.False(t, result.IsValid)
	// Indistinguishable from a wrong password.
	require.True(t, errors.Is(result.Err, ErrInvalidCredentials))
}

func TestLogin_InvalidatesPriorAccessTokens(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, "a@x.com", "password123", "A")
	require.NoError(t, err)

	first, err := f.service.Login(ctx, "a@x.com", "password123")
	require.NoError(t, err)
	require.True(t, first.IsValid)
	t1 := first.Data.AccessToken

	_, err = f.validator.Validate(ctx, t1)
	require.NoError(t, err)

	// A later login moves tokens_valid_from past T1's issued-at second.
	f.clock.Advance(2 * time.Second)
	second, err := f.service.Login(ctx, "a@x.com", "password123")
	require.NoError(t, err)
	require.True(t, second.IsValid)

	_, err = f.validator.Validate(ctx, t1)
	require.True(t, errors.Is(err, ErrUnauthenticated))

	// The new token is fine.
	_, err = f.validator.Validate(ctx, second.Data.AccessToken)
	require.NoError(t, err)
}

func TestLogin_RevokesAllPriorRefreshTokens(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, "a@x.com", "password123", "A")
	require.NoError(t, err)

	first, err := f.service.Login(ctx, "a@x.com", "password123")
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	second, err := f.service.Login(ctx, "a@x.com", "password123")
	require.NoError(t, err)

	// The second login's refresh token rotates fine...
	rotated, err := f.service.Refresh(ctx, second.Data.RefreshToken)
	require.NoError(t, err)
	require.True(t, rotated.IsValid)

	// ...but the first login's token was mass-revoked.
	stale, err := f.service.Refresh(ctx, first.Data.RefreshToken)
	require.NoError(t, err)
	require.False(t, stale.IsValid)
	require.True(t, errors.Is(stale.Err, ErrRefreshTokenRevoked))
}

func TestLogin_UserVanishedAfterUpdate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	reg, err := f.service.Register(ctx, "a@x.com", "password123", "A")
	require.NoError(t, err)

	// Simulate the row disappearing between the update and the re-read.
	// FindByEmail still sees it; FindByID does not.
	f.users.findByIDErr = ErrNotFound
	_ = reg

	_, err = f.service.Login(ctx, "a@x.com", "password123")
	require.Error(t, err)
	require.Contains(t, err.Error(), "vanished")
}

func TestRefresh_RotationIsSingleUse(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	reg, err := f.service.Register(ctx, "a@x.com", "password123", "A")
	require.NoError(t, err)
	r1 := reg.Data.RefreshToken

	rotated, err := f.service.Refresh(ctx, r1)
	require.NoError(t, err)
	require.True(t, rotated.IsValid)
	r2 := rotated.Data.RefreshToken
	require.NotEqual(t, r1, r2)

	// Replaying the rotated token is rejected.
	replay, err := f.service.Refresh(ctx, r1)
	require.NoError(t, err)
	require.False(t, replay.IsValid)
	require.True(t, errors.Is(replay.Err, ErrRefreshTokenRevoked))

	// The successor still works.
	next, err := f.service.Refresh(ctx, r2)
	require.NoError(t, err)
	require.True(t, next.IsValid)
}

func TestRefresh_Expired(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	reg, err := f.service.Register(ctx, "a@x.com", "password123", "A")
	require.NoError(t, err)

	f.clock.Advance(8 * 24 * time.Hour)

	result, err := f.service.Refresh(ctx, reg.Data.RefreshToken)
	require.NoError(t, err)
	require.False(t, result.IsValid)
	require.True(t, errors.Is(result.Err, ErrRefreshTokenExpired))

	// Expiry wins even though the record was never revoked.
	record, ok := f.tokens.get(reg.Data.RefreshToken)
	require.True(t, ok)
	require.False(t, record.Revoked)
}

func TestRefresh_UnknownToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	result, err := f.service.Refresh(context.Background(), "no-such-token")
	require.NoError(t, err)
	require.False(t, result.IsValid)
	require.True(t, errors.Is(result.Err, ErrInvalidRefreshToken))
}

func TestRefresh_DoesNotRevokeSiblingSessions(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	reg, err := f.service.Register(ctx, "a@x.com", "password123", "A")
	require.NoError(t, err)

	// A second session for the same user, created by refresh rather than
	// login so the first token survives.
	rotated, err := f.service.Refresh(ctx, reg.Data.RefreshToken)
	require.NoError(t, err)
	sibling, err := f.service.Refresh(ctx, rotated.Data.RefreshToken)
	require.NoError(t, err)

	// Rotating one chain leaves the other chain's latest token usable.
	require.True(t, sibling.IsValid)
}

func TestRefresh_OldAccessTokenStaysValidUntilExpiry(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	reg, err := f.service.Register(ctx, "a@x.com", "password123", "A")
	require.NoError(t, err)
	oldAccess := reg.Data.AccessToken

	f.clock.Advance(time.Minute)
	rotated, err := f.service.Refresh(ctx, reg.Data.RefreshToken)
	require.NoError(t, err)
	require.True(t, rotated.IsValid)

	// Refresh does not blacklist the old access token: both it and the new
	// one validate until the old one's natural expiry. Documented window.
	_, err = f.validator.Validate(ctx, oldAccess)
	require.NoError(t, err)
	_, err = f.validator.Validate(ctx, rotated.Data.AccessToken)
	require.NoError(t, err)
}

func TestLogout_RevokesSingleToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	reg, err := f.service.Register(ctx, "a@x.com", "password123", "A")
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, reg.Data.RefreshToken))

	result, err := f.service.Refresh(ctx, reg.Data.RefreshToken)
	require.NoError(t, err)
	require.False(t, result.IsValid)
	require.True(t, errors.Is(result.Err, ErrRefreshTokenRevoked))

	// Unknown and already-revoked tokens are quiet no-ops.
	require.NoError(t, f.service.Logout(ctx, "no-such-token"))
	require.NoError(t, f.service.Logout(ctx, reg.Data.RefreshToken))
}

func TestRegister_TokensValidFromFlooredToSecond(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.service.Register(ctx, "a@x.com", "password123", "A")
	require.NoError(t, err)

	user, err := f.users.FindByID(ctx, result.Data.User.ID)
	require.NoError(t, err)
	require.Zero(t, user.TokensValidFrom.Nanosecond())
	require.False(t, user.TokensValidFrom.After(f.clock.Now()))
}

func TestService_InfrastructureFaultPropagates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, "a@x.com", "password123", "A")
	require.NoError(t, err)

	boom := errors.New("connection refused")
	f.users.findByIDErr = boom

	// A store fault is a real error, never a soft is_valid=false.
	result, err := f.service.Login(ctx, "a@x.com", "password123")
	require.Nil(t, result)
	require.ErrorIs(t, err, boom)
}
