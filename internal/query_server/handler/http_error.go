package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ErrorMessage represents an error response
// @swagger:model ErrorMessage
type ErrorMessage struct {
	// The error message
	Message string `json:"message"`
}

func HttpError(w http.ResponseWriter, message string, code int, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	err := json.NewEncoder(w).Encode(ErrorMessage{Message: message})
	if err != nil {
		logger.Error("Error encountered when encoding error response", zap.Error(err))
	}
}
