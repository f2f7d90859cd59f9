package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	traceService "github.com/tracelens/tracelens/internal/query_server/service/trace"
	"go.uber.org/zap"
)

// TraceTimelineHandler creates a handler for analyzing a stored trace's timeline by id.
// @Summary Analyze the timeline of an ingested trace.
// @Tags analysis
// @Produce json
// @Param traceId path string true "The id of the trace to analyze"
// @Success 200 {object} model.TimelineResult "Per-span timeline entries and the trace summary"
// @Failure 404 {object} ErrorMessage "Trace not found"
// @Failure 500 {object} ErrorMessage "Internal server error"
// @Router /traces/{traceId}/timeline [get]
func TraceTimelineHandler(
	ctx context.Context,
	ts traceService.TraceQueryService,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		traceId := mux.Vars(r)["traceId"]
		if traceId == "" {
			HttpError(w, "Trace id is required", http.StatusBadRequest, logger)
			return
		}

		result, err := ts.GetTraceTimeline(ctx, traceId)
		if err != nil {
			if errors.Is(err, traceService.ErrTraceNotFound) {
				HttpError(w, "Trace not found", http.StatusNotFound, logger)
				return
			}
			logger.Error("Error encountered when analyzing trace timeline", zap.Error(err))
			HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
			return
		}

		err = json.NewEncoder(w).Encode(result)
		if err != nil {
			logger.Error("Error encountered when encoding response", zap.Error(err))
			HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
			return
		}
	}
}
