package fragments

import (
	"fmt"
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring"

	"github.com/katalvlaran/molfrag/molgraph"
	"github.com/katalvlaran/molfrag/rng"
)

// phase tracks which kind of fragment the generator emits next.
type phase int

const (
	phaseStart    phase = iota // no atom revealed yet
	phaseExpand                // labeled fragments, then the completed snapshot
	phaseStop                  // terminal stop fragment
	phaseDone                  // exhausted or failed
)

// candidate is one surviving frontier edge: visited slot → unvisited node.
type candidate struct {
	slot   int
	target int
	length float64
}

// Generator yields the trajectory of one molecule lazily, scanner style:
//
//	gen, err := fragments.NewGenerator(key, g, nSpecies, opts...)
//	for gen.Next() {
//	    f := gen.Fragment()
//	}
//	if err := gen.Err(); err != nil { ... }
//
// A Generator is not safe for concurrent use; it borrows the graph read-only.
type Generator struct {
	graph    *molgraph.MoleculeGraph
	nSpecies int
	opts     Options
	key      rng.Key

	hydrogen []bool          // per species
	slotOf   []int           // molecule index → slot, -1 when unvisited
	order    []int           // reveal order
	edges    []molgraph.Edge // induced edges over slots, grown per reveal
	pending  *roaring.Bitmap // unvisited heavy atoms

	phase phase
	cur   Fragment
	err   error
}

// NewGenerator validates its inputs and prepares a lazy trajectory.
// Returns ErrGraphNil, ErrEmptyMolecule, ErrInvalidSpeciesCount,
// ErrSpeciesOutOfRange or ErrOptionViolation.
func NewGenerator(key rng.Key, g *molgraph.MoleculeGraph, nSpecies int, opts ...Option) (*Generator, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o, err := Apply(opts...)
	if err != nil {
		return nil, err
	}
	n := g.NumNodes()
	if n == 0 {
		return nil, ErrEmptyMolecule
	}
	if nSpecies < 1 {
		return nil, fmt.Errorf("NewGenerator: nSpecies=%d: %w", nSpecies, ErrInvalidSpeciesCount)
	}

	hydrogen := make([]bool, nSpecies)
	for _, s := range o.Hydrogen {
		if s < nSpecies {
			hydrogen[s] = true
		}
	}

	gen := &Generator{
		graph:    g,
		nSpecies: nSpecies,
		opts:     o,
		key:      key,
		hydrogen: hydrogen,
		slotOf:   make([]int, n),
		pending:  roaring.New(),
		order:    make([]int, 0, n),
	}
	for i := 0; i < n; i++ {
		s := g.Atom(i).Species
		if s >= nSpecies {
			return nil, fmt.Errorf("NewGenerator: atom %d species %d >= %d: %w", i, s, nSpecies, ErrSpeciesOutOfRange)
		}
		gen.slotOf[i] = -1
		if !hydrogen[s] {
			gen.pending.Add(uint32(i))
		}
	}

	return gen, nil
}

// Generate runs a Generator to completion and returns all n+1 fragments.
func Generate(key rng.Key, g *molgraph.MoleculeGraph, nSpecies int, opts ...Option) ([]Fragment, error) {
	gen, err := NewGenerator(key, g, nSpecies, opts...)
	if err != nil {
		return nil, err
	}
	traj := make([]Fragment, 0, g.NumNodes()+1)
	for gen.Next() {
		traj = append(traj, gen.Fragment())
	}
	if err := gen.Err(); err != nil {
		return nil, err
	}

	return traj, nil
}

// Next advances to the next fragment. It returns false once the stop
// fragment has been consumed or an error occurred; check Err afterwards.
func (gen *Generator) Next() bool {
	if gen.phase == phaseStart {
		start, err := gen.pickStart()
		if err != nil {
			return gen.fail(err)
		}
		gen.reveal(start)
		gen.phase = phaseExpand
	}

	switch gen.phase {
	case phaseExpand:
		if len(gen.order) == gen.graph.NumNodes() {
			gen.cur = gen.unlabeled(false)
			gen.phase = phaseStop
			return true
		}
		f, target, err := gen.expand()
		if err != nil {
			return gen.fail(err)
		}
		gen.cur = f
		gen.reveal(target)
		return true
	case phaseStop:
		gen.cur = gen.unlabeled(true)
		gen.phase = phaseDone
		return true
	default:
		return false
	}
}

// Fragment returns the fragment produced by the last successful Next.
func (gen *Generator) Fragment() Fragment { return gen.cur }

// Err returns the error that stopped generation, if any.
func (gen *Generator) Err() error { return gen.err }

// Remaining returns the number of fragments still to be yielded.
func (gen *Generator) Remaining() int {
	n := gen.graph.NumNodes()
	switch gen.phase {
	case phaseStart:
		return n + 1
	case phaseExpand:
		return n - len(gen.order) + 2
	case phaseStop:
		return 1
	default:
		return 0
	}
}

func (gen *Generator) fail(err error) bool {
	gen.err = err
	gen.phase = phaseDone
	gen.cur = Fragment{}

	return false
}

// split consumes the generator key and returns a key for one draw.
func (gen *Generator) split() rng.Key {
	var k rng.Key
	gen.key, k = rng.Split(gen.key)

	return k
}

func (gen *Generator) heavy(node int) bool {
	return !gen.hydrogen[gen.graph.Atom(node).Species]
}

// reveal marks node visited and extends the induced edge list with its
// edges to earlier slots.
func (gen *Generator) reveal(node int) {
	slot := len(gen.order)
	gen.order = append(gen.order, node)
	gen.slotOf[node] = slot
	gen.pending.Remove(uint32(node))
	for _, w := range gen.graph.Neighbors(node) {
		if t := gen.slotOf[w]; t >= 0 {
			gen.edges = append(gen.edges, molgraph.Edge{I: t, J: slot})
		}
	}
}

// pickStart draws the first atom around the centroid.
func (gen *Generator) pickStart() (int, error) {
	n := gen.graph.NumNodes()
	restrict := gen.opts.HeavyFirst && !gen.pending.IsEmpty()

	eligible := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !restrict || gen.heavy(i) {
			eligible = append(eligible, i)
		}
	}

	weights := make([]float64, len(eligible))
	if gen.opts.BetaCOM == 0 {
		for i := range weights {
			weights[i] = 1
		}
	} else {
		c := gen.centroid(restrict)
		d2 := make([]float64, len(eligible))
		lowest := math.Inf(1)
		for i, v := range eligible {
			d2[i] = sqDist(gen.graph.Atom(v).Position, c)
			lowest = math.Min(lowest, d2[i])
		}
		// shifted by the minimum so the closest atom has weight 1
		for i := range weights {
			weights[i] = math.Exp(-gen.opts.BetaCOM * (d2[i] - lowest))
		}
	}

	idx, err := rng.Categorical(gen.split(), weights)
	if err != nil {
		return 0, fmt.Errorf("start selection: %w", err)
	}

	return eligible[idx], nil
}

// centroid averages positions over heavy atoms (heavyOnly) or all atoms.
func (gen *Generator) centroid(heavyOnly bool) [3]float64 {
	var c [3]float64
	var count float64
	for i := 0; i < gen.graph.NumNodes(); i++ {
		if heavyOnly && !gen.heavy(i) {
			continue
		}
		p := gen.graph.Atom(i).Position
		c[0], c[1], c[2] = c[0]+p[0], c[1]+p[1], c[2]+p[2]
		count++
	}
	c[0], c[1], c[2] = c[0]/count, c[1]/count, c[2]/count

	return c
}

// frontier collects the eligible visited→unvisited edges.
func (gen *Generator) frontier() ([]candidate, error) {
	restrict := gen.opts.HeavyFirst && !gen.pending.IsEmpty()
	var cands []candidate
	blocked := 0 // frontier edges dropped by heavy-first
	for slot, v := range gen.order {
		for _, w := range gen.graph.Neighbors(v) {
			if gen.slotOf[w] >= 0 {
				continue
			}
			if restrict && !gen.heavy(w) {
				blocked++
				continue
			}
			cands = append(cands, candidate{slot: slot, target: w, length: gen.graph.Distance(v, w)})
		}
	}
	if len(cands) > 0 {
		return cands, nil
	}

	left := gen.graph.NumNodes() - len(gen.order)
	switch {
	case gen.graph.NumEdges() == 0:
		return nil, fmt.Errorf("%d atoms unreachable: %w", left, ErrEmptyGraph)
	case blocked > 0:
		return nil, fmt.Errorf("%d heavy atoms reachable only through hydrogen: %w", gen.pending.GetCardinality(), ErrDisconnectedGraph)
	default:
		return nil, fmt.Errorf("%d atoms unreachable from %d visited: %w", left, len(gen.order), ErrDisconnectedGraph)
	}
}

// expand labels the current visited set with the next reveal and returns
// the fragment together with the chosen target node.
func (gen *Generator) expand() (Fragment, int, error) {
	cands, err := gen.frontier()
	if err != nil {
		return Fragment{}, 0, err
	}

	shortest := math.Inf(1)
	for _, c := range cands {
		shortest = math.Min(shortest, c.length)
	}
	kept := cands[:0]
	for _, c := range cands {
		if c.length <= shortest+gen.opts.Epsilon {
			kept = append(kept, c)
		}
	}

	nv := len(gen.order)
	counts := make([][]float64, nv)
	for s := range counts {
		counts[s] = make([]float64, gen.nSpecies)
	}
	for _, c := range kept {
		counts[c.slot][gen.graph.Atom(c.target).Species]++
	}
	total := float64(len(kept))

	focus := make([]float64, nv)
	probs := make([][]float64, nv)
	for s := range counts {
		probs[s] = make([]float64, gen.nSpecies)
		for k, c := range counts[s] {
			probs[s][k] = c / total
			focus[s] += c
		}
		focus[s] /= total
	}

	focusSlot, err := rng.Categorical(gen.split(), focus)
	if err != nil {
		return Fragment{}, 0, fmt.Errorf("focus selection: %w", err)
	}
	species, err := rng.Categorical(gen.split(), counts[focusSlot])
	if err != nil {
		return Fragment{}, 0, fmt.Errorf("species selection: %w", err)
	}
	var targets []int
	for _, c := range kept {
		if c.slot == focusSlot && gen.graph.Atom(c.target).Species == species {
			targets = append(targets, c.target)
		}
	}
	pick, err := rng.Intn(gen.split(), len(targets))
	if err != nil {
		return Fragment{}, 0, fmt.Errorf("target selection: %w", err)
	}
	target := targets[pick]

	f := gen.snapshot()
	f.Focus = focus
	f.SpeciesProbability = probs
	f.FocusSlot = focusSlot
	f.TargetNode = target
	f.TargetSpecies = species
	fp := gen.graph.Atom(gen.order[focusSlot]).Position
	tp := gen.graph.Atom(target).Position
	f.TargetPosition = [3]float64{tp[0] - fp[0], tp[1] - fp[1], tp[2] - fp[2]}

	return f, target, nil
}

// unlabeled builds a fragment over the full visited set with zeroed labels.
func (gen *Generator) unlabeled(stop bool) Fragment {
	f := gen.snapshot()
	nv := len(gen.order)
	f.Focus = make([]float64, nv)
	f.SpeciesProbability = make([][]float64, nv)
	for s := range f.SpeciesProbability {
		f.SpeciesProbability[s] = make([]float64, gen.nSpecies)
	}
	f.FocusSlot = -1
	f.TargetNode = -1
	f.TargetSpecies = NoSpecies
	f.Stop = stop

	return f
}

// snapshot copies the visited state so fragments never alias generator storage.
func (gen *Generator) snapshot() Fragment {
	nodes := append([]int(nil), gen.order...)
	atoms := make([]molgraph.Atom, len(nodes))
	for s, v := range nodes {
		atoms[s] = gen.graph.Atom(v)
	}

	edges := append([]molgraph.Edge(nil), gen.edges...)
	sort.Slice(edges, func(a, b int) bool {
		if edges[a].I != edges[b].I {
			return edges[a].I < edges[b].I
		}
		return edges[a].J < edges[b].J
	})

	return Fragment{
		Nodes: nodes,
		Atoms: atoms,
		Edges: edges,
	}
}

func sqDist(a, b [3]float64) float64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]

	return dx*dx + dy*dy + dz*dz
}
