package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tracelens/tracelens/internal/analysis/graph"
	"github.com/tracelens/tracelens/internal/analysis/model"
)

func TestAssignLayers(t *testing.T) {
	t.Run("Roots are layer 0 and children one deeper", func(t *testing.T) {
		spans := []model.Span{
			{SpanID: "a"},
			{SpanID: "b", ParentSpanID: "a"},
			{SpanID: "c", ParentSpanID: "b"},
		}
		adjacency := graph.BuildAdjacency(spans)
		layers := AssignLayers([]string{"a", "b", "c"}, adjacency)
		assert.Equal(t, 0, layers["a"])
		assert.Equal(t, 1, layers["b"])
		assert.Equal(t, 2, layers["c"])
	})

	t.Run("Revisits through a longer path raise the layer, never lower it", func(t *testing.T) {
		// a -> b, a -> c, b -> c: c is first discovered at layer 1, then
		// raised to 2 via b
		nodeIds := []string{"a", "b", "c"}
		edges := []model.Edge{
			{Source: "a", Target: "b"},
			{Source: "a", Target: "c"},
			{Source: "b", Target: "c"},
		}
		adjacency := graph.BuildEdgeAdjacency(nodeIds, edges)
		layers := AssignLayers(nodeIds, adjacency)
		assert.Equal(t, 0, layers["a"])
		assert.Equal(t, 1, layers["b"])
		assert.Equal(t, 2, layers["c"])
	})

	t.Run("Nodes unreachable from any root default to layer 0", func(t *testing.T) {
		// b and c form an isolated cycle with no root, so BFS never
		// reaches them
		nodeIds := []string{"a", "b", "c"}
		edges := []model.Edge{
			{Source: "b", Target: "c"},
			{Source: "c", Target: "b"},
		}
		adjacency := graph.BuildEdgeAdjacency(nodeIds, edges)
		layers := AssignLayers(nodeIds, adjacency)
		assert.Equal(t, 0, layers["a"])
		assert.Equal(t, 0, layers["b"])
		assert.Equal(t, 0, layers["c"])
	})

	t.Run("Residual cycles terminate with all layers assigned", func(t *testing.T) {
		nodeIds := []string{"a", "b", "c"}
		edges := []model.Edge{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "c"},
			{Source: "c", Target: "b"},
		}
		adjacency := graph.BuildEdgeAdjacency(nodeIds, edges)
		layers := AssignLayers(nodeIds, adjacency)
		assert.Equal(t, 0, layers["a"])
		assert.GreaterOrEqual(t, layers["b"], 1)
		assert.GreaterOrEqual(t, layers["c"], 2)
	})
}

func TestComputePositions(t *testing.T) {
	t.Run("Stacks siblings vertically centered around the canvas center", func(t *testing.T) {
		spans := []model.Span{
			{SpanID: "a"},
			{SpanID: "b", ParentSpanID: "a"},
			{SpanID: "c", ParentSpanID: "a"},
			{SpanID: "d", ParentSpanID: "b"},
		}
		adjacency := graph.BuildAdjacency(spans)
		positions := ComputePositions([]string{"a", "b", "c", "d"}, adjacency, nil)
		assert.Equal(t, model.Position{X: 100, Y: 300}, positions["a"])
		assert.Equal(t, model.Position{X: 350, Y: 250}, positions["b"])
		assert.Equal(t, model.Position{X: 350, Y: 350}, positions["c"])
		assert.Equal(t, model.Position{X: 600, Y: 300}, positions["d"])
	})

	t.Run("Explicit overrides win for that node only", func(t *testing.T) {
		spans := []model.Span{
			{SpanID: "a"},
			{SpanID: "b", ParentSpanID: "a"},
		}
		adjacency := graph.BuildAdjacency(spans)
		overrides := map[string]model.Position{"b": {X: 42, Y: 24}}
		positions := ComputePositions([]string{"a", "b"}, adjacency, overrides)
		assert.Equal(t, model.Position{X: 100, Y: 300}, positions["a"])
		assert.Equal(t, model.Position{X: 42, Y: 24}, positions["b"])
	})

	t.Run("Overrides for unknown nodes are ignored", func(t *testing.T) {
		spans := []model.Span{{SpanID: "a"}}
		adjacency := graph.BuildAdjacency(spans)
		overrides := map[string]model.Position{"ghost": {X: 1, Y: 1}}
		positions := ComputePositions([]string{"a"}, adjacency, overrides)
		assert.Len(t, positions, 1)
	})
}

func TestLayoutSpans(t *testing.T) {
	t.Run("Builds nodes with classification and echoed metrics", func(t *testing.T) {
		spans := []model.Span{
			{
				SpanID:    "a",
				Name:      "agent_run",
				StartTime: model.NewTimestamp(0),
				EndTime:   model.NewTimestamp(500),
				Attributes: map[string]string{
					model.AttributeSpanType:    "llm",
					model.AttributeServiceName: "orchestrator",
					model.AttributeTotalTokens: "1250",
					model.AttributeCostUSD:     "0.0025",
				},
			},
			{
				SpanID:       "b",
				ParentSpanID: "a",
				Name:         "tool_call",
				StartTime:    model.NewTimestamp(100),
				EndTime:      model.NewTimestamp(300),
			},
		}
		nodes, edges := LayoutSpans(spans, nil)
		assert.Len(t, nodes, 2)
		assert.Equal(t, "llm", nodes[0].Type)
		assert.Equal(t, "orchestrator: agent_run", nodes[0].Label)
		assert.Equal(t, int64(1250), nodes[0].Tokens)
		assert.Equal(t, 0.0025, nodes[0].Cost)
		assert.Equal(t, 500.0, nodes[0].Duration)
		assert.Equal(t, "span", nodes[1].Type)
		assert.Equal(t, "tool_call", nodes[1].Label)
		assert.Equal(t, []model.Edge{{Source: "a", Target: "b"}}, edges)
	})

	t.Run("Malformed metric attributes default to zero", func(t *testing.T) {
		spans := []model.Span{
			{
				SpanID: "a",
				Attributes: map[string]string{
					model.AttributeTotalTokens: "not-a-number",
				},
			},
		}
		nodes, _ := LayoutSpans(spans, nil)
		assert.Equal(t, int64(0), nodes[0].Tokens)
	})
}
