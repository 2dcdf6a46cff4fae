package commands_test

import (
	"context"
	"testing"
	"time"

	"agentlists/contexts/identity-access/admin-auth-service/adapters/memory"
	"agentlists/contexts/identity-access/admin-auth-service/adapters/token"
	"agentlists/contexts/identity-access/admin-auth-service/application/commands"
	"agentlists/contexts/identity-access/admin-auth-service/application/queries"
	"agentlists/contexts/identity-access/admin-auth-service/domain/entities"
	domainerrors "agentlists/contexts/identity-access/admin-auth-service/domain/errors"
	"agentlists/internal/platform/passwords"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUseCases(t *testing.T) (commands.UseCase, queries.UseCase, *memory.Store) {
	t.Helper()
	issuer, err := token.NewJWTIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	store := memory.NewStore(nil)
	hasher := passwords.NewBcryptHasher(bcrypt.MinCost)
	return commands.UseCase{Users: store, Hasher: hasher, Tokens: issuer, IDGen: store},
		queries.UseCase{Users: store, Tokens: issuer},
		store
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	cmd, _, _ := newUseCases(t)

	first, created, err := cmd.EnsureAdmin(context.Background(), "Admin", "Admin@Example.com", "admin123")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "admin@example.com", first.Email)
	assert.Equal(t, entities.RoleAdmin, first.Role)

	second, created, err := cmd.EnsureAdmin(context.Background(), "Admin", "admin@example.com", "other123")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	_, _, err = cmd.EnsureAdmin(context.Background(), "Admin", "nope", "admin123")
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	_, _, err = cmd.EnsureAdmin(context.Background(), "Admin", "x@example.com", "123")
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestLoginAndAuthenticate(t *testing.T) {
	cmd, query, _ := newUseCases(t)
	admin, _, err := cmd.EnsureAdmin(context.Background(), "Admin", "admin@example.com", "admin123")
	require.NoError(t, err)

	result, err := cmd.Login(context.Background(), " ADMIN@example.com ", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, admin.ID, result.User.ID)

	user, err := query.RequireAdmin(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, user.ID)

	me, err := query.Me(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "Admin", me.Name)

	_, err = cmd.Login(context.Background(), "admin@example.com", "wrong")
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	_, err = cmd.Login(context.Background(), "ghost@example.com", "admin123")
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = query.Authenticate(context.Background(), "garbage")
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)
	_, err = query.Authenticate(context.Background(), "")
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestRequireAdminForbidsOtherRoles(t *testing.T) {
	cmd, query, store := newUseCases(t)
	hash, err := passwords.NewBcryptHasher(bcrypt.MinCost).Hash("viewer123")
	require.NoError(t, err)
	require.NoError(t, store.CreateUser(context.Background(), entities.User{
		ID: "viewer-1", Name: "Viewer", Email: "viewer@example.com", PasswordHash: hash, Role: "viewer",
	}))

	result, err := cmd.Login(context.Background(), "viewer@example.com", "viewer123")
	require.NoError(t, err)

	_, err = query.Authenticate(context.Background(), result.Token)
	require.NoError(t, err)
	_, err = query.RequireAdmin(context.Background(), result.Token)
	require.ErrorIs(t, err, domainerrors.ErrForbidden)
}
