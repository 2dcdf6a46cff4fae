package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	agenterrors "agentlists/contexts/list-distribution/agent-service/domain/errors"
	agenthttp "agentlists/contexts/list-distribution/agent-service/transport/http"
)

func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var req agenthttp.CreateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAgentError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.agents.Handler.CreateAgentHandler(r.Context(), req)
	if err != nil {
		writeAgentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	resp, err := s.agents.Handler.ListAgentsHandler(r.Context())
	if err != nil {
		writeAgentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	resp, err := s.agents.Handler.GetAgentHandler(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAgentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateAgent(w http.ResponseWriter, r *http.Request) {
	var req agenthttp.UpdateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAgentError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.agents.Handler.UpdateAgentHandler(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeAgentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	resp, err := s.agents.Handler.DeleteAgentHandler(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAgentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCountActiveAgents(w http.ResponseWriter, r *http.Request) {
	resp, err := s.agents.Handler.CountActiveHandler(r.Context())
	if err != nil {
		writeAgentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAgentDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, agenterrors.ErrInvalidAgentInput):
		writeAgentError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, agenterrors.ErrAgentNotFound):
		writeAgentError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, agenterrors.ErrDuplicateEmail):
		writeAgentError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeAgentError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAgentError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, agenthttp.ErrorResponse{Code: code, Message: message})
}
