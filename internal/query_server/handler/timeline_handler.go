package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/tracelens/tracelens/internal/analysis/timeline"
	"go.uber.org/zap"
)

// TimelineHandler creates a handler for analyzing a trace's execution timeline.
// @Summary Analyze span depths, the critical path, and parallelism for a trace.
// @Tags analysis
// @Accept json
// @Produce json
// @Param spans body TimelineRequestDTO true "The spans to analyze"
// @Success 200 {object} model.TimelineResult "Per-span timeline entries and the trace summary"
// @Failure 400 {object} ErrorMessage "Invalid request payload"
// @Failure 500 {object} ErrorMessage "Internal server error"
// @Router /analysis/timeline [post]
func TimelineHandler(
	analyzer *timeline.Analyzer,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TimelineRequestDTO
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

		result := analyzer.Analyze(req.Spans)
		err = json.NewEncoder(w).Encode(result)
		if err != nil {
			logger.Error("Error encountered when encoding response", zap.Error(err))
			HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
			return
		}
	}
}
