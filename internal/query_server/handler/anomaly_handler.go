package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/tracelens/tracelens/internal/analysis/anomaly"
	"go.uber.org/zap"
)

// AnomalyHandler creates a handler for scanning a metric series for anomalies.
// @Summary Scan a metric series for statistical anomalies.
// @Tags analysis
// @Accept json
// @Produce json
// @Param series body AnomalyRequestDTO true "The timestamped metric series to scan"
// @Success 200 {object} model.AnomalyResult "Flagged anomalies, trend points and control limits"
// @Failure 400 {object} ErrorMessage "Invalid request payload"
// @Failure 500 {object} ErrorMessage "Internal server error"
// @Router /analysis/anomalies [post]
func AnomalyHandler(
	detector *anomaly.Detector,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnomalyRequestDTO
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Error("Error encountered when decoding request body", zap.Error(err))
			HttpError(w, "Invalid request payload", http.StatusBadRequest, logger)
			return
		}

		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logger.Error("Error encountered when closing request body", zap.Error(err))
			}
		}(r.Body)

		if len(req.Timestamps) != len(req.Values) {
			HttpError(w, "Timestamps and values must have the same length", http.StatusBadRequest, logger)
			return
		}

		result := detector.Detect(req.Timestamps, req.Values)
		err = json.NewEncoder(w).Encode(result)
		if err != nil {
			logger.Error("Error encountered when encoding response", zap.Error(err))
			HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
			return
		}
	}
}
