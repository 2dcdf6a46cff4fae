package httpadapter

import (
	"context"
	"log/slog"

	"agentlists/contexts/identity-access/admin-auth-service/application/commands"
	"agentlists/contexts/identity-access/admin-auth-service/application/queries"
	"agentlists/contexts/identity-access/admin-auth-service/domain/entities"
	httptransport "agentlists/contexts/identity-access/admin-auth-service/transport/http"
)

type Handler struct {
	Commands commands.UseCase
	Queries  queries.UseCase
	Logger   *slog.Logger
}

func (h Handler) LoginHandler(ctx context.Context, req httptransport.LoginRequest) (httptransport.LoginResponse, error) {
	result, err := h.Commands.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httptransport.LoginResponse{}, err
	}
	return httptransport.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      toUserDTO(result.User),
	}, nil
}

func (h Handler) AuthenticateHandler(ctx context.Context, token string) (httptransport.UserDTO, error) {
	user, err := h.Queries.Authenticate(ctx, token)
	if err != nil {
		return httptransport.UserDTO{}, err
	}
	return toUserDTO(user), nil
}

// RequireAdminHandler resolves the bearer token for the auth middleware.
func (h Handler) RequireAdminHandler(ctx context.Context, token string) (httptransport.UserDTO, error) {
	user, err := h.Queries.RequireAdmin(ctx, token)
	if err != nil {
		return httptransport.UserDTO{}, err
	}
	return toUserDTO(user), nil
}

func (h Handler) MeHandler(ctx context.Context, userID string) (httptransport.MeResponse, error) {
	user, err := h.Queries.Me(ctx, userID)
	if err != nil {
		return httptransport.MeResponse{}, err
	}
	return httptransport.MeResponse{Data: toUserDTO(user)}, nil
}

func toUserDTO(user entities.User) httptransport.UserDTO {
	return httptransport.UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}
