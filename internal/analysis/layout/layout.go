package layout

import (
	"github.com/tracelens/tracelens/internal/analysis/graph"
	"github.com/tracelens/tracelens/internal/analysis/model"
)

const (
	layerSpacingX   = 250.0
	siblingSpacingY = 100.0
	horizontalStart = 100.0
	canvasCenterY   = 300.0
)

// AssignLayers walks the graph breadth-first from every root at once and
// assigns each node the maximum layer over all discovery paths that reach
// it: a revisit through a longer path raises the layer, never lowers it.
// Nodes never reached (isolated islands) default to layer 0.
func AssignLayers(nodeIds []string, adjacency graph.Adjacency) map[string]int {
	layers := make(map[string]int, len(nodeIds))
	queue := make([]string, 0, len(nodeIds))
	enqueued := make(map[string]bool, len(nodeIds))
	for _, root := range adjacency.Roots {
		layers[root] = 0
		enqueued[root] = true
		queue = append(queue, root)
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range adjacency.Outgoing[current] {
			candidate := layers[current] + 1
			if existing, ok := layers[child]; !ok || candidate > existing {
				layers[child] = candidate
			}
			// residual cycles: a node already seen is not re-enqueued
			if !enqueued[child] {
				enqueued[child] = true
				queue = append(queue, child)
			}
		}
	}
	for _, id := range nodeIds {
		if _, ok := layers[id]; !ok {
			layers[id] = 0
		}
	}
	return layers
}

// ComputePositions lays out every node on a 2-D canvas: one column per
// layer, siblings stacked vertically and centered around the canvas center
// line. An explicit override wins for that node only. Ordering within a
// layer follows the input ordering of nodeIds, so positions are stable for
// a fixed input.
func ComputePositions(
	nodeIds []string,
	adjacency graph.Adjacency,
	overrides map[string]model.Position,
) map[string]model.Position {
	layers := AssignLayers(nodeIds, adjacency)

	nodesByLayer := make(map[int][]string)
	for _, id := range nodeIds {
		layer := layers[id]
		nodesByLayer[layer] = append(nodesByLayer[layer], id)
	}

	positions := make(map[string]model.Position, len(nodeIds))
	for layer, ids := range nodesByLayer {
		x := horizontalStart + float64(layer)*layerSpacingX
		offset := float64(len(ids)-1) / 2.0
		for i, id := range ids {
			positions[id] = model.Position{
				X: x,
				Y: canvasCenterY + (float64(i)-offset)*siblingSpacingY,
			}
		}
	}
	for id, override := range overrides {
		if _, ok := positions[id]; ok {
			positions[id] = override
		}
	}
	return positions
}

// LayoutSpans builds the full node and edge set for the DAG view from a
// flat span collection.
func LayoutSpans(spans []model.Span, overrides map[string]model.Position) ([]model.Node, []model.Edge) {
	adjacency := graph.BuildAdjacency(spans)
	nodeIds := make([]string, len(spans))
	for i, span := range spans {
		nodeIds[i] = span.SpanID
	}
	layers := AssignLayers(nodeIds, adjacency)
	positions := ComputePositions(nodeIds, adjacency, overrides)

	nodes := make([]model.Node, len(spans))
	for i, span := range spans {
		nodes[i] = buildNode(span, layers[span.SpanID], positions[span.SpanID])
	}

	edges := make([]model.Edge, 0, len(spans))
	for _, span := range spans {
		for _, child := range adjacency.Outgoing[span.SpanID] {
			edges = append(edges, model.Edge{
				Source: span.SpanID,
				Target: child,
			})
		}
	}
	return nodes, edges
}
