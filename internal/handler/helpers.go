package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/eljumillano/deposit-reports-go/internal/domain"

	"go.uber.org/zap"
)

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Status: "error", Message: message})
}

// handleServiceError maps domain errors to HTTP status codes.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var validationErr *domain.ErrValidation
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, validationErr.Error())
		return
	}

	var externalErr *domain.ErrExternalService
	if errors.As(err, &externalErr) {
		logger.Error("external service error", zap.Error(err))
		writeError(w, http.StatusBadGateway, externalErr.Error())
		return
	}

	logger.Error("unhandled error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func parseInt(raw string) (int, error) {
	return strconv.Atoi(raw)
}
