package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	application "agentlists/contexts/identity-access/admin-auth-service/application"
	"agentlists/contexts/identity-access/admin-auth-service/domain/entities"
	domainerrors "agentlists/contexts/identity-access/admin-auth-service/domain/errors"
	"agentlists/contexts/identity-access/admin-auth-service/ports"
)

const minPasswordLength = 6

type UseCase struct {
	Users  ports.UserRepository
	Hasher ports.PasswordHasher
	Tokens ports.TokenIssuer
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      entities.User
}

func (uc UseCase) Login(ctx context.Context, email string, password string) (LoginResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, domainerrors.ErrInvalidInput
	}

	user, err := uc.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return LoginResult{}, domainerrors.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if err := uc.Hasher.Compare(user.PasswordHash, password); err != nil {
		logger.Warn("admin login rejected",
			"event", "admin_login_rejected",
			"module", "identity-access/admin-auth-service",
			"layer", "application",
			"user_id", user.ID,
		)
		return LoginResult{}, domainerrors.ErrInvalidCredentials
	}

	token, expiresAt, err := uc.Tokens.Issue(user.ID, uc.now())
	if err != nil {
		return LoginResult{}, err
	}
	logger.Info("admin logged in",
		"event", "admin_login_succeeded",
		"module", "identity-access/admin-auth-service",
		"layer", "application",
		"user_id", user.ID,
	)
	return LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// EnsureAdmin creates an admin user unless one with the email already exists.
// The bool reports whether a user was created.
func (uc UseCase) EnsureAdmin(ctx context.Context, name string, email string, password string) (entities.User, bool, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || len(password) < minPasswordLength {
		return entities.User{}, false, domainerrors.ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return entities.User{}, false, domainerrors.ErrInvalidInput
	}

	existing, err := uc.Users.GetUserByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domainerrors.ErrUserNotFound) {
		return entities.User{}, false, err
	}

	hash, err := uc.Hasher.Hash(password)
	if err != nil {
		return entities.User{}, false, err
	}
	userID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.User{}, false, err
	}
	user := entities.User{
		ID:           userID,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         entities.RoleAdmin,
		CreatedAt:    uc.now(),
	}
	if err := uc.Users.CreateUser(ctx, user); err != nil {
		return entities.User{}, false, err
	}
	application.ResolveLogger(uc.Logger).Info("admin user created",
		"event", "admin_user_created",
		"module", "identity-access/admin-auth-service",
		"layer", "application",
		"user_id", user.ID,
	)
	return user, true, nil
}

func (uc UseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
