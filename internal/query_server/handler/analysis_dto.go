package handler

import (
	"github.com/tracelens/tracelens/internal/analysis/model"
)

// LayoutRequestDTO represents a request to lay out a trace's spans as a graph
// @swagger:model LayoutRequestDTO
type LayoutRequestDTO struct {
	// The spans to lay out
	Spans []model.Span `json:"spans"`
	// Optional pinned positions keyed by span id, honored over computed ones
	Overrides map[string]model.Position `json:"overrides,omitempty"`
}

// LayoutResponseDTO represents the laid-out execution graph
// @swagger:model LayoutResponseDTO
type LayoutResponseDTO struct {
	// The positioned graph nodes
	Nodes []model.Node `json:"nodes"`
	// The parent-child edges between nodes
	Edges []model.Edge `json:"edges"`
}

// TimelineRequestDTO represents a request to analyze a trace's timeline
// @swagger:model TimelineRequestDTO
type TimelineRequestDTO struct {
	// The spans to analyze
	Spans []model.Span `json:"spans"`
}

// AnomalyRequestDTO represents a metric series to scan for anomalies
// @swagger:model AnomalyRequestDTO
type AnomalyRequestDTO struct {
	// The sample timestamps, parallel to values
	Timestamps []float64 `json:"timestamps"`
	// The sample values, parallel to timestamps
	Values []float64 `json:"values"`
}
