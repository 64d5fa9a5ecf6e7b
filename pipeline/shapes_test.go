package pipeline_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/molfrag/padding"
	"github.com/katalvlaran/molfrag/pipeline"
)

func TestShapeTracker(t *testing.T) {
	tr := pipeline.NewShapeTracker()
	a := padding.Shape{Nodes: 8, Edges: 16, Graphs: 4}
	b := padding.Shape{Nodes: 6, Edges: 32, Graphs: 3}
	c := padding.Shape{Nodes: 6, Edges: 16, Graphs: 3}

	assert.True(t, tr.Observe(a))
	assert.False(t, tr.Observe(a))
	assert.True(t, tr.Observe(b))
	assert.True(t, tr.Observe(c))

	assert.Equal(t, 3, tr.Len())
	assert.Equal(t, 2, tr.Count(a))
	assert.Zero(t, tr.Count(padding.Shape{}))
	assert.Equal(t, []padding.Shape{c, b, a}, tr.Shapes())
}

func TestShapeTracker_Concurrent(t *testing.T) {
	tr := pipeline.NewShapeTracker()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				tr.Observe(padding.Shape{Nodes: i % 4, Edges: w % 2, Graphs: 1})
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 8, tr.Len())
	assert.Equal(t, 100, tr.Count(padding.Shape{Nodes: 0, Edges: 0, Graphs: 1}))
}
