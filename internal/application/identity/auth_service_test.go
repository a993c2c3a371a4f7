package identity

import (
	"context"
	"testing"
	"time"

	"github.com/shopmall/backend/internal/domain/identity"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/infrastructure/auth"
	"github.com/shopmall/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "test",
		MaxRefreshCount:        3,
	})
}

type authFixture struct {
	svc       *AuthService
	users     *MockUserRepository
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
}

func newAuthFixture() *authFixture {
	users := new(MockUserRepository)
	jwtService := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	return &authFixture{
		svc:       NewAuthService(users, jwtService, blacklist, zap.NewNop()),
		users:     users,
		jwt:       jwtService,
		blacklist: blacklist,
	}
}

func hasCode(err error, code string) bool {
	de, ok := err.(*shared.DomainError)
	return ok && de.Code == code
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t)
		f.users.On("FindByEmail", ctx, "kim@example.com").Return(user, nil)
		f.users.On("Update", ctx, user).Return(nil)

		result, err := f.svc.Login(ctx, LoginInput{Email: "kim@example.com", Password: "Password123"})
		require.NoError(t, err)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, user.ID, result.User.ID)
		assert.NotNil(t, user.LastLoginAt)

		claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, identity.RoleCustomer.String(), claims.Role)
		assert.Equal(t, "kim01", claims.UID)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t)
		f.users.On("FindByEmail", ctx, "kim@example.com").Return(user, nil)

		_, err := f.svc.Login(ctx, LoginInput{Email: "kim@example.com", Password: "Wrong12345"})
		assert.True(t, hasCode(err, "INVALID_CREDENTIALS"))
		f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("FindByEmail", ctx, "nobody@example.com").Return(nil, shared.ErrNotFound)

		_, err := f.svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "Password123"})
		assert.True(t, hasCode(err, "INVALID_CREDENTIALS"))
	})

	t.Run("login timestamp failure does not fail login", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t)
		f.users.On("FindByEmail", ctx, "kim@example.com").Return(user, nil)
		f.users.On("Update", ctx, user).Return(shared.ErrConcurrencyConflict)

		_, err := f.svc.Login(ctx, LoginInput{Email: "kim@example.com", Password: "Password123"})
		assert.NoError(t, err)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("issues new pair with current role and revokes the old token", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t)
		pair, err := f.jwt.GenerateTokenPair(tokenInputFor(user))
		require.NoError(t, err)

		user.Role = identity.RoleSuperAdmin
		f.users.On("FindByID", ctx, user.ID).Return(user, nil)

		result, err := f.svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.RefreshToken})
		require.NoError(t, err)

		claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, identity.RoleSuperAdmin.String(), claims.Role)

		_, err = f.svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.RefreshToken})
		assert.True(t, hasCode(err, "TOKEN_REVOKED"))
	})

	t.Run("invalid token", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: "garbage"})
		assert.True(t, hasCode(err, "TOKEN_INVALID"))
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		f := newAuthFixture()
		pair, err := f.jwt.GenerateTokenPair(tokenInputFor(newTestUser(t)))
		require.NoError(t, err)

		_, err = f.svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.AccessToken})
		assert.True(t, hasCode(err, "TOKEN_INVALID"))
	})

	t.Run("deleted user", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t)
		pair, err := f.jwt.GenerateTokenPair(tokenInputFor(user))
		require.NoError(t, err)
		f.users.On("FindByID", ctx, user.ID).Return(nil, shared.ErrNotFound)

		_, err = f.svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.RefreshToken})
		assert.True(t, hasCode(err, "TOKEN_INVALID"))
	})

	t.Run("user tokens invalidated", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t)
		pair, err := f.jwt.GenerateTokenPair(tokenInputFor(user))
		require.NoError(t, err)
		require.NoError(t, f.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), time.Hour))

		_, err = f.svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.RefreshToken})
		assert.True(t, hasCode(err, "TOKEN_REVOKED"))
		f.users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	user := newTestUser(t)
	pair, err := f.jwt.GenerateTokenPair(tokenInputFor(user))
	require.NoError(t, err)
	claims, err := f.jwt.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	err = f.svc.Logout(ctx, LogoutInput{UserID: user.ID, TokenJTI: claims.ID, ExpiresAt: claims.GetExpiresAtTime()})
	require.NoError(t, err)

	revoked, err := f.blacklist.IsBlacklisted(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	err = f.svc.Logout(ctx, LogoutInput{UserID: user.ID})
	assert.True(t, hasCode(err, "TOKEN_INVALID"))
}
