package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	listhttpadapter "agentlists/contexts/list-distribution/list-service/adapters/http"
	listerrors "agentlists/contexts/list-distribution/list-service/domain/errors"
	listhttp "agentlists/contexts/list-distribution/list-service/transport/http"
)

// multipartOverhead leaves room for boundaries and part headers on top of the
// file size limit.
const multipartOverhead = 64 << 10

// handleUploadList streams the "file" part straight into the upload use case.
// The part size is unknown up front, so the limit is enforced while staging.
func (s *Server) handleUploadList(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartOverhead)

	req := listhttpadapter.UploadRequest{Size: -1}
	reader, err := r.MultipartReader()
	if err == nil {
		for {
			part, err := reader.NextPart()
			if err != nil {
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					writeListDomainError(w, listerrors.ErrFileTooLarge)
					return
				}
				if !errors.Is(err, io.EOF) {
					writeListError(w, http.StatusBadRequest, "invalid_multipart", "request body must be multipart/form-data")
					return
				}
				break
			}
			if part.FormName() != "file" {
				_ = part.Close()
				continue
			}
			defer part.Close()
			req.FileName = part.FileName()
			req.ContentType = part.Header.Get("Content-Type")
			req.Body = part
			break
		}
	}

	resp, err := s.lists.Handler.UploadHandler(r.Context(), req)
	if err != nil {
		writeListDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.lists.Handler.ListRecordsHandler(r.Context(), listhttp.ListRecordsRequest{
		AgentID:     query.Get("agentId"),
		UploadBatch: query.Get("uploadBatch"),
		Status:      query.Get("status"),
	})
	if err != nil {
		writeListDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListByAgent(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lists.Handler.ListByAgentHandler(r.Context(), r.PathValue("agentId"))
	if err != nil {
		writeListDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSummary(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lists.Handler.SummaryHandler(r.Context())
	if err != nil {
		writeListDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lists.Handler.DeleteBatchHandler(r.Context(), r.PathValue("uploadBatch"))
	if err != nil {
		writeListDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateRecordStatus(w http.ResponseWriter, r *http.Request) {
	var req listhttp.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeListError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.lists.Handler.UpdateStatusHandler(r.Context(), r.PathValue("recordId"), req)
	if err != nil {
		writeListDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeListDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, listerrors.ErrFileTooLarge):
		writeListError(w, http.StatusRequestEntityTooLarge, "file_too_large", err.Error())
	case errors.Is(err, listerrors.ErrUnsupportedFileType):
		writeListError(w, http.StatusUnsupportedMediaType, "unsupported_file_type", err.Error())
	case errors.Is(err, listerrors.ErrMissingRequiredField),
		errors.Is(err, listerrors.ErrInvalidPhoneFormat),
		errors.Is(err, listerrors.ErrFieldTooLong),
		errors.Is(err, listerrors.ErrEmptyBatch):
		writeListError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, listerrors.ErrNoFileUploaded),
		errors.Is(err, listerrors.ErrEmptyFile),
		errors.Is(err, listerrors.ErrFileParseFailed):
		writeListError(w, http.StatusBadRequest, "invalid_file", err.Error())
	case errors.Is(err, listerrors.ErrNoAgentsAvailable),
		errors.Is(err, listerrors.ErrNoItemsToDistribute):
		writeListError(w, http.StatusBadRequest, "distribution_unavailable", err.Error())
	case errors.Is(err, listerrors.ErrInvalidStatus),
		errors.Is(err, listerrors.ErrInvalidUploadBatch):
		writeListError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, listerrors.ErrBatchNotFound),
		errors.Is(err, listerrors.ErrAgentNotFound),
		errors.Is(err, listerrors.ErrRecordNotFound):
		writeListError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeListError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeListError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, listhttp.ErrorResponse{Code: code, Message: message})
}
