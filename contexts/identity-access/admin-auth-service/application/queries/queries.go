package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "agentlists/contexts/identity-access/admin-auth-service/application"
	"agentlists/contexts/identity-access/admin-auth-service/domain/entities"
	domainerrors "agentlists/contexts/identity-access/admin-auth-service/domain/errors"
	"agentlists/contexts/identity-access/admin-auth-service/ports"
)

type UseCase struct {
	Users  ports.UserRepository
	Tokens ports.TokenIssuer
	Clock  ports.Clock
	Logger *slog.Logger
}

// Authenticate resolves a bearer token to its user.
func (uc UseCase) Authenticate(ctx context.Context, token string) (entities.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return entities.User{}, domainerrors.ErrUnauthorized
	}
	userID, err := uc.Tokens.Verify(token, uc.now())
	if err != nil {
		application.ResolveLogger(uc.Logger).Debug("token rejected",
			"event", "admin_token_rejected",
			"module", "identity-access/admin-auth-service",
			"layer", "application",
			"error", err.Error(),
		)
		return entities.User{}, domainerrors.ErrUnauthorized
	}
	user, err := uc.Users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return entities.User{}, domainerrors.ErrUnauthorized
		}
		return entities.User{}, err
	}
	return user, nil
}

func (uc UseCase) RequireAdmin(ctx context.Context, token string) (entities.User, error) {
	user, err := uc.Authenticate(ctx, token)
	if err != nil {
		return entities.User{}, err
	}
	if !user.IsAdmin() {
		return entities.User{}, domainerrors.ErrForbidden
	}
	return user, nil
}

func (uc UseCase) Me(ctx context.Context, userID string) (entities.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return entities.User{}, domainerrors.ErrUnauthorized
	}
	return uc.Users.GetUser(ctx, userID)
}

func (uc UseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}
