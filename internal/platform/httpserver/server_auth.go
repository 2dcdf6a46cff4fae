package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	autherrors "agentlists/contexts/identity-access/admin-auth-service/domain/errors"
	authhttp "agentlists/contexts/identity-access/admin-auth-service/transport/http"
)

type adminContextKey struct{}

// requireAdmin rejects requests without an admin bearer token and stores the
// admin on the request context.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeAuthError(w, http.StatusUnauthorized, "unauthorized", "Authorization bearer token is required")
			return
		}
		admin, err := s.auth.Handler.RequireAdminHandler(r.Context(), token)
		if err != nil {
			writeAuthDomainError(w, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), adminContextKey{}, admin)))
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req authhttp.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.auth.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		writeAuthDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeAuthError(w, http.StatusUnauthorized, "unauthorized", "Authorization bearer token is required")
		return
	}
	user, err := s.auth.Handler.AuthenticateHandler(r.Context(), token)
	if err != nil {
		writeAuthDomainError(w, err)
		return
	}
	resp, err := s.auth.Handler.MeHandler(r.Context(), user.ID)
	if err != nil {
		writeAuthDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAuthDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, autherrors.ErrInvalidCredentials),
		errors.Is(err, autherrors.ErrUnauthorized):
		writeAuthError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, autherrors.ErrForbidden):
		writeAuthError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, autherrors.ErrInvalidInput):
		writeAuthError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, autherrors.ErrUserNotFound):
		writeAuthError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeAuthError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAuthError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, authhttp.ErrorResponse{Code: code, Message: message})
}
