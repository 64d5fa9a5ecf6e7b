package fragments

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/molfrag/molgraph"
)

// Verify checks that traj is a well-formed trajectory of g:
//   - n+1 fragments, fragment k showing min(k+1, n) atoms;
//   - every fragment's Nodes is a prefix of the final reveal order, which is
//     a permutation of the molecule's nodes;
//   - fragments 0..n-2 name the atom revealed next, fragment n-1 has no
//     target, and only fragment n has Stop set;
//   - under heavyFirst, no hydrogen-class target precedes the last heavy atom;
//   - the final fragment's edges equal the molecule's edge set.
//
// Violations are reported as ErrInvalidTrajectory.
func Verify(g *molgraph.MoleculeGraph, traj []Fragment, opts ...Option) error {
	if g == nil {
		return ErrGraphNil
	}
	o, err := Apply(opts...)
	if err != nil {
		return err
	}
	n := g.NumNodes()
	if len(traj) != n+1 {
		return invalidf("length %d, want %d", len(traj), n+1)
	}

	final := traj[n]
	if !isPermutation(final.Nodes, n) {
		return invalidf("final reveal order %v is not a permutation of %d nodes", final.Nodes, n)
	}

	hydrogen := make(map[int]bool, len(o.Hydrogen))
	for _, s := range o.Hydrogen {
		hydrogen[s] = true
	}
	heavyLeft := 0
	for i := 0; i < n; i++ {
		if !hydrogen[g.Atom(i).Species] {
			heavyLeft++
		}
	}

	for k, f := range traj {
		want := min(k+1, n)
		if f.NumNodes() != want || len(f.Nodes) != want {
			return invalidf("fragment %d has %d atoms, want %d", k, f.NumNodes(), want)
		}
		if !slices.Equal(f.Nodes, final.Nodes[:want]) {
			return invalidf("fragment %d order %v is not a prefix of %v", k, f.Nodes, final.Nodes)
		}
		if len(f.Focus) != want {
			return invalidf("fragment %d focus has %d entries, want %d", k, len(f.Focus), want)
		}
		if f.Stop != (k == n) {
			return invalidf("fragment %d stop=%v", k, f.Stop)
		}
		if !hydrogen[g.Atom(f.Nodes[want-1]).Species] && k < n {
			// the atom revealed at step k has just been accounted for
			heavyLeft--
		}
		if k >= n-1 {
			if f.HasTarget() {
				return invalidf("fragment %d has target %d after the last reveal", k, f.TargetNode)
			}
			continue
		}
		next := traj[k+1].Nodes[k+1]
		if !f.HasTarget() || f.TargetNode != next {
			return invalidf("fragment %d targets %d, next reveal is %d", k, f.TargetNode, next)
		}
		if f.TargetSpecies != g.Atom(next).Species {
			return invalidf("fragment %d target species %d, atom has %d", k, f.TargetSpecies, g.Atom(next).Species)
		}
		if o.HeavyFirst && heavyLeft > 0 && hydrogen[f.TargetSpecies] {
			return invalidf("fragment %d targets hydrogen-class species %d with %d heavy atoms left", k, f.TargetSpecies, heavyLeft)
		}
	}

	if !slices.Equal(final.MoleculeEdges(), g.Edges()) {
		return invalidf("final edges %v differ from molecule edges %v", final.MoleculeEdges(), g.Edges())
	}

	return nil
}

func isPermutation(nodes []int, n int) bool {
	if len(nodes) != n {
		return false
	}
	seen := make([]bool, n)
	for _, v := range nodes {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
	}

	return true
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidTrajectory)
}
