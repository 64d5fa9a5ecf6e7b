package pipeline

import (
	"sort"
	"sync"

	"github.com/katalvlaran/molfrag/padding"
)

// ShapeTracker counts padded shapes. It is safe for concurrent use.
type ShapeTracker struct {
	mu     sync.Mutex
	counts map[padding.Shape]int
}

// NewShapeTracker returns an empty tracker.
func NewShapeTracker() *ShapeTracker {
	return &ShapeTracker{counts: make(map[padding.Shape]int)}
}

// Observe records s and reports whether it was new.
func (t *ShapeTracker) Observe(s padding.Shape) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[s]++

	return t.counts[s] == 1
}

// Len returns the number of distinct shapes.
func (t *ShapeTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.counts)
}

// Count returns how often s was observed.
func (t *ShapeTracker) Count(s padding.Shape) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.counts[s]
}

// Shapes returns the distinct shapes ordered by nodes, edges, graphs.
func (t *ShapeTracker) Shapes() []padding.Shape {
	t.mu.Lock()
	out := make([]padding.Shape, 0, len(t.counts))
	for s := range t.counts {
		out = append(out, s)
	}
	t.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Nodes != b.Nodes {
			return a.Nodes < b.Nodes
		}
		if a.Edges != b.Edges {
			return a.Edges < b.Edges
		}
		return a.Graphs < b.Graphs
	})

	return out
}
