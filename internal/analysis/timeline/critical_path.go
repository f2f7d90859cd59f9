package timeline

import (
	"github.com/tracelens/tracelens/internal/analysis/graph"
	"github.com/tracelens/tracelens/internal/analysis/model"
)

// chainResult is the memoized outcome for one span: the heaviest
// root-to-leaf chain starting at it and that chain's cumulative duration.
type chainResult struct {
	path     []string
	duration float64
}

// findCriticalPath selects the root-to-leaf chain maximizing the sum of
// per-span durations. Ties keep the first chain found, in root order and
// child iteration order. The traversal uses an explicit frame stack with a
// memo table and a visiting set: edges back into the current path are
// skipped, which truncates residual cycles instead of rejecting the trace.
func findCriticalPath(
	adjacency graph.Adjacency,
	spansById map[string]model.Span,
) ([]string, float64) {
	memo := make(map[string]chainResult, len(spansById))
	var best chainResult
	for _, root := range adjacency.Roots {
		result := heaviestChain(root, adjacency, spansById, memo)
		if best.path == nil || result.duration > best.duration {
			best = result
		}
	}
	return best.path, best.duration
}

type chainFrame struct {
	id       string
	children []string
	next     int
}

func heaviestChain(
	rootId string,
	adjacency graph.Adjacency,
	spansById map[string]model.Span,
	memo map[string]chainResult,
) chainResult {
	if result, ok := memo[rootId]; ok {
		return result
	}
	visiting := map[string]bool{rootId: true}
	stack := []chainFrame{{id: rootId, children: adjacency.Outgoing[rootId]}}
	for len(stack) > 0 {
		frame := &stack[len(stack)-1]

		if frame.next < len(frame.children) {
			child := frame.children[frame.next]
			frame.next++
			if visiting[child] {
				continue
			}
			if _, ok := memo[child]; ok {
				continue
			}
			visiting[child] = true
			stack = append(stack, chainFrame{id: child, children: adjacency.Outgoing[child]})
			continue
		}

		// all children resolved: pick the heaviest and prepend ourselves
		span := spansById[frame.id]
		best := chainResult{}
		found := false
		for _, child := range frame.children {
			childResult, ok := memo[child]
			if !ok {
				// a cycle edge back into the current path, skipped
				continue
			}
			if !found || childResult.duration > best.duration {
				best = childResult
				found = true
			}
		}
		path := make([]string, 0, len(best.path)+1)
		path = append(path, frame.id)
		path = append(path, best.path...)
		memo[frame.id] = chainResult{
			path:     path,
			duration: best.duration + span.DurationMs(),
		}
		delete(visiting, frame.id)
		stack = stack[:len(stack)-1]
	}
	return memo[rootId]
}
