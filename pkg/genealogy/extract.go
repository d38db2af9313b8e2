package genealogy

import (
	"sort"

	"github.com/tbl3rd/bvg/pkg/bitvec"
)

// NoParent is the sentinel parent entry marking the progenitor.
const NoParent = -1

// Parents is a parent-pointer array indexed by vertex: each entry is
// the vertex's inferred parent, or [NoParent] for the progenitor.
// A valid result has exactly one NoParent entry.
type Parents []int

// Root returns the index of the progenitor, or -1 if no entry holds
// the sentinel.
func (p Parents) Root() int {
	for i, parent := range p {
		if parent == NoParent {
			return i
		}
	}
	return -1
}

// Children returns the vertices whose parent is v, in ascending order.
func (p Parents) Children(v int) []int {
	var kids []int
	for i, parent := range p {
		if parent == v {
			kids = append(kids, i)
		}
	}
	return kids
}

// Depth returns the number of hops from v to the root.
func (p Parents) Depth(v int) int {
	d := 0
	for p[v] != NoParent {
		v = p[v]
		d++
	}
	return d
}

// Extract orients an undirected connected structure over n vertices
// into a rooted tree by iterative leaf peeling. Each pass identifies
// every vertex with exactly one neighbor from a snapshot taken at the
// start of the pass, records that neighbor as its parent, and removes
// the leaf - so the outcome never depends on map iteration order.
// Peeling ends when one vertex remains: the progenitor, whose entry
// stays [NoParent].
//
// When exactly two mutually adjacent vertices remain, only the lower
// index is peeled; the higher becomes the root.
//
// If a pass finds no leaves while more than one vertex remains, the
// structure was not a tree (a cycle survived or peeling cannot resolve
// it); Extract returns [ErrNonConvergence] and no partial result.
func Extract(n int, edges []Relation) (Parents, error) {
	neighbors := discover(edges)

	parents := make(Parents, n)
	for i := range parents {
		parents[i] = NoParent
	}

	for len(neighbors) > 1 {
		leaves := snapshotLeaves(neighbors)
		if len(leaves) == 0 {
			return nil, ErrNonConvergence
		}

		// Final pair: both vertices see each other as their only
		// neighbor. Peel just one so a single root survives.
		if len(neighbors) == 2 && len(leaves) == 2 {
			leaves = leaves[:1]
		}

		for _, leaf := range leaves {
			var parent int
			for v := range neighbors[leaf] {
				parent = v
			}
			parents[leaf] = parent
			delete(neighbors[parent], leaf)
			delete(neighbors, leaf)
		}
	}

	return parents, nil
}

// discover builds the mutable adjacency map the peeling loop consumes.
func discover(edges []Relation) map[int]map[int]struct{} {
	neighbors := make(map[int]map[int]struct{})
	adj := func(a, b int) {
		set, ok := neighbors[a]
		if !ok {
			set = make(map[int]struct{})
			neighbors[a] = set
		}
		set[b] = struct{}{}
	}
	for _, e := range edges {
		adj(e.Left, e.Right)
		adj(e.Right, e.Left)
	}
	return neighbors
}

// snapshotLeaves returns the vertices with exactly one neighbor at the
// moment of the call, in ascending order.
func snapshotLeaves(neighbors map[int]map[int]struct{}) []int {
	var leaves []int
	for v, set := range neighbors {
		if len(set) == 1 {
			leaves = append(leaves, v)
		}
	}
	sort.Ints(leaves)
	return leaves
}

// Infer runs the complete core pipeline: score all pairs, assemble the
// spanning structure, and orient it into a rooted tree. The population
// must already be validated (square, '0'/'1' only); percent is an
// integer percentage in [0,100].
func Infer(pop *bitvec.Population, percent int) (Parents, error) {
	m, err := NewMetric(pop.Size(), percent)
	if err != nil {
		return nil, err
	}
	rels := Relations(pop, m)
	SortRelations(rels)
	span, err := Span(pop.Size(), rels)
	if err != nil {
		return nil, err
	}
	return Extract(pop.Size(), span.Edges)
}
