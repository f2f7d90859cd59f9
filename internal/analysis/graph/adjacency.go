package graph

import (
	"github.com/tracelens/tracelens/internal/analysis/model"
)

// Adjacency holds the parent -> children and child -> parents maps for one
// trace. Every known span id has an entry in both maps. Roots are the spans
// with no resolvable parent; a dangling parent reference makes a span a
// root rather than an error.
type Adjacency struct {
	Incoming map[string][]string
	Outgoing map[string][]string
	Roots    []string
}

// BuildAdjacency constructs adjacency from the flat span collection. No
// cycle detection happens here; callers break residual cycles with visited
// sets during traversal. Deterministic for a given input ordering.
func BuildAdjacency(spans []model.Span) Adjacency {
	adjacency := Adjacency{
		Incoming: make(map[string][]string, len(spans)),
		Outgoing: make(map[string][]string, len(spans)),
	}
	known := make(map[string]bool, len(spans))
	for _, span := range spans {
		known[span.SpanID] = true
		adjacency.Incoming[span.SpanID] = []string{}
		adjacency.Outgoing[span.SpanID] = []string{}
	}
	for _, span := range spans {
		if span.ParentSpanID == "" || !known[span.ParentSpanID] {
			adjacency.Roots = append(adjacency.Roots, span.SpanID)
			continue
		}
		adjacency.Incoming[span.SpanID] = append(adjacency.Incoming[span.SpanID], span.ParentSpanID)
		adjacency.Outgoing[span.ParentSpanID] = append(adjacency.Outgoing[span.ParentSpanID], span.SpanID)
	}
	return adjacency
}

// BuildEdgeAdjacency constructs adjacency from explicit edges. Edges
// referencing unknown node ids are skipped as if absent.
func BuildEdgeAdjacency(nodeIds []string, edges []model.Edge) Adjacency {
	adjacency := Adjacency{
		Incoming: make(map[string][]string, len(nodeIds)),
		Outgoing: make(map[string][]string, len(nodeIds)),
	}
	known := make(map[string]bool, len(nodeIds))
	for _, id := range nodeIds {
		known[id] = true
		adjacency.Incoming[id] = []string{}
		adjacency.Outgoing[id] = []string{}
	}
	for _, edge := range edges {
		if !known[edge.Source] || !known[edge.Target] {
			continue
		}
		adjacency.Outgoing[edge.Source] = append(adjacency.Outgoing[edge.Source], edge.Target)
		adjacency.Incoming[edge.Target] = append(adjacency.Incoming[edge.Target], edge.Source)
	}
	for _, id := range nodeIds {
		if len(adjacency.Incoming[id]) == 0 {
			adjacency.Roots = append(adjacency.Roots, id)
		}
	}
	return adjacency
}
