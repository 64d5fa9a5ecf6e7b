package batch

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/molfrag/fragments"
)

// Sentinel errors for batching.
var (
	// ErrInvalidBudget indicates a budget with a non-positive limit.
	ErrInvalidBudget = errors.New("batch: budget limits must be positive")

	// ErrFragmentTooLarge indicates a single fragment exceeds the budget.
	ErrFragmentTooLarge = errors.New("batch: fragment exceeds batch budget")

	// ErrSourceNil indicates a nil Source.
	ErrSourceNil = errors.New("batch: source is nil")
)

// Source yields fragments one pull at a time. io.EOF closes the stream.
type Source interface {
	Next() (fragments.Fragment, error)
}

// Budget bounds the unpadded content of one batch.
type Budget struct {
	MaxNodes  int `yaml:"max_nodes"`
	MaxEdges  int `yaml:"max_edges"`
	MaxGraphs int `yaml:"max_graphs"`
}

// Validate reports ErrInvalidBudget for any limit below 1.
func (b Budget) Validate() error {
	if b.MaxNodes < 1 || b.MaxEdges < 1 || b.MaxGraphs < 1 {
		return fmt.Errorf("budget nodes=%d edges=%d graphs=%d: %w",
			b.MaxNodes, b.MaxEdges, b.MaxGraphs, ErrInvalidBudget)
	}

	return nil
}

// Fits reports whether a fragment of n nodes and e edges fits an empty batch.
func (b Budget) Fits(n, e int) bool {
	return n <= b.MaxNodes && e <= b.MaxEdges && b.MaxGraphs >= 1
}

// Batch is an unpadded aggregate of fragments within a Budget.
type Batch struct {
	Fragments []fragments.Fragment
	Nodes     int
	Edges     int
	Graphs    int
}

// Len returns the number of fragments.
func (b *Batch) Len() int { return len(b.Fragments) }
