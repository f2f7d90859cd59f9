package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/tracelens/tracelens/internal/analysis/layout"
	"go.uber.org/zap"
)

// LayoutHandler creates a handler for laying out a trace's spans as a positioned graph.
// @Summary Lay out a trace's spans as a positioned execution graph.
// @Tags analysis
// @Accept json
// @Produce json
// @Param spans body LayoutRequestDTO true "The spans to lay out, with optional position overrides"
// @Success 200 {object} LayoutResponseDTO "The positioned nodes and edges"
// @Failure 400 {object} ErrorMessage "Invalid request payload"
// @Failure 500 {object} ErrorMessage "Internal server error"
// @Router /analysis/layout [post]
func LayoutHandler(
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LayoutRequestDTO
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

		nodes, edges := layout.LayoutSpans(req.Spans, req.Overrides)
		err = json.NewEncoder(w).Encode(LayoutResponseDTO{
			Nodes: nodes,
			Edges: edges,
		})
		if err != nil {
			logger.Error("Error encountered when encoding response", zap.Error(err))
			HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
			return
		}
	}
}
