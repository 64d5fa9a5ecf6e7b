package batch

import (
	"errors"
	"fmt"
	"io"

	"github.com/katalvlaran/molfrag/fragments"
)

// Batcher greedily packs a Source into Batches. It is not safe for concurrent use.
type Batcher struct {
	src    Source
	budget Budget

	pending *Batch
	carry   *fragments.Fragment // fragment that overflowed the previous batch
	closed  bool
}

// New returns a Batcher over src. Returns ErrSourceNil or ErrInvalidBudget.
func New(src Source, budget Budget) (*Batcher, error) {
	if src == nil {
		return nil, ErrSourceNil
	}
	if err := budget.Validate(); err != nil {
		return nil, err
	}

	return &Batcher{src: src, budget: budget}, nil
}

// Budget returns the configured budget.
func (b *Batcher) Budget() Budget { return b.budget }

// Next pulls fragments until the pending batch can take no more and returns it.
// After the source closes, the final non-empty batch is returned, followed by io.EOF.
// Source errors and ErrFragmentTooLarge are returned on the pull that observes them.
func (b *Batcher) Next() (*Batch, error) {
	if b.closed {
		return nil, io.EOF
	}
	for {
		var f fragments.Fragment
		if b.carry != nil {
			f, b.carry = *b.carry, nil
		} else {
			var err error
			f, err = b.src.Next()
			if errors.Is(err, io.EOF) {
				b.closed = true
				if out := b.flush(); out != nil {
					return out, nil
				}
				return nil, io.EOF
			}
			if err != nil {
				return nil, err
			}
		}

		n, e := f.NumNodes(), f.NumEdges()
		if !b.budget.Fits(n, e) {
			return nil, fmt.Errorf("fragment nodes=%d edges=%d, budget nodes=%d edges=%d: %w",
				n, e, b.budget.MaxNodes, b.budget.MaxEdges, ErrFragmentTooLarge)
		}
		if b.overflows(n, e) {
			b.carry = &f
			return b.flush(), nil
		}
		b.admit(f)
	}
}

// overflows reports whether admitting n nodes and e edges breaks the budget.
// An empty pending batch never overflows for a fragment that Fits.
func (b *Batcher) overflows(n, e int) bool {
	p := b.pending
	if p == nil {
		return false
	}

	return p.Nodes+n > b.budget.MaxNodes ||
		p.Edges+e > b.budget.MaxEdges ||
		p.Graphs+1 > b.budget.MaxGraphs
}

func (b *Batcher) admit(f fragments.Fragment) {
	if b.pending == nil {
		b.pending = &Batch{}
	}
	b.pending.Fragments = append(b.pending.Fragments, f)
	b.pending.Nodes += f.NumNodes()
	b.pending.Edges += f.NumEdges()
	b.pending.Graphs++
}

// flush hands over the pending batch and resets the accumulators.
func (b *Batcher) flush() *Batch {
	out := b.pending
	b.pending = nil

	return out
}

// sliceSource is a finite Source.
type sliceSource struct {
	frags []fragments.Fragment
	pos   int
}

// FromSlice returns a Source yielding frags in order, then io.EOF.
func FromSlice(frags []fragments.Fragment) Source {
	return &sliceSource{frags: frags}
}

func (s *sliceSource) Next() (fragments.Fragment, error) {
	if s.pos >= len(s.frags) {
		return fragments.Fragment{}, io.EOF
	}
	f := s.frags[s.pos]
	s.pos++

	return f, nil
}
