package handlers

import (
	"encoding/json"
	"net/http"

	"seo_crawler/internal/http/middleware"
	"seo_crawler/internal/pkg/errors"

	log "github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Code      int    `json:"code"`
}

func sendError(w http.ResponseWriter, r *http.Request, logger *log.Logger, message string, err error, code int) {
	reqID := middleware.RequestID(r.Context())
	logger.WithError(err).WithFields(log.Fields{
		"code":       code,
		"request_id": reqID,
	}).Error(message)

	response := ErrorResponse{
		Message:   message,
		Error:     err.Error(),
		RequestID: reqID,
		Code:      code,
	}
	if kind := errors.Kind(err); kind != `unknown_error` {
		response.Kind = kind
	}
	writeJSON(w, code, response)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// statusFor maps a per-URL failure to the status returned to the caller.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrHTTPStatus), errors.Is(err, errors.ErrNetwork):
		return http.StatusBadGateway
	case errors.Is(err, errors.ErrExtraction):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
