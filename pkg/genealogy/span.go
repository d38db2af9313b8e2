package genealogy

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Spanning is the assembled structure covering the whole population:
// every vertex index, plus the relations that were accepted while it
// grew. The edge list usually holds exactly N-1 entries, but an edge
// whose endpoints already share a component is still appended, so a few
// cycle-forming extras are possible - [Extract] detects and rejects
// those rather than silently dropping them.
type Spanning struct {
	Vertices *roaring.Bitmap
	Edges    []Relation
}

// component is one connected subgraph under construction.
type component struct {
	vertices *roaring.Bitmap
	edges    []Relation
}

func (c *component) add(r Relation) {
	c.vertices.Add(uint32(r.Left))
	c.vertices.Add(uint32(r.Right))
	c.edges = append(c.edges, r)
}

// builder tracks disjoint components with a union-find over vertex
// indices (path compression + union by rank), replacing the reference
// algorithm's linear component scan while keeping the same
// edge-processing order and the same stall semantics.
type builder struct {
	parent []int // -1 = vertex not yet touched by any edge
	rank   []int
	comps  map[int]*component // union-find root -> component
}

func newBuilder(n int) *builder {
	b := &builder{
		parent: make([]int, n),
		rank:   make([]int, n),
		comps:  make(map[int]*component),
	}
	for i := range b.parent {
		b.parent[i] = -1
	}
	return b
}

// find returns the component root for v, or -1 if v is untouched.
func (b *builder) find(v int) int {
	if b.parent[v] == -1 {
		return -1
	}
	for b.parent[v] != v {
		b.parent[v] = b.parent[b.parent[v]]
		v = b.parent[v]
	}
	return v
}

// union merges the components rooted at x and y and returns the
// surviving root. Both roots must be live.
func (b *builder) union(x, y int) int {
	if b.rank[x] < b.rank[y] {
		x, y = y, x
	}
	b.parent[y] = x
	if b.rank[x] == b.rank[y] {
		b.rank[x]++
	}
	cx, cy := b.comps[x], b.comps[y]
	cx.vertices.Or(cy.vertices)
	cx.edges = append(cx.edges, cy.edges...)
	delete(b.comps, y)
	return x
}

// Span assembles a single connected structure covering all n vertices
// from the pre-sorted relation list, processing relations in order and
// greedily merging whichever components each one connects. It stops as
// soon as one component's vertex set covers the whole population.
//
// Relations must already be ordered (see [SortRelations]); Span does
// not sort. If the relations run out before any component spans the
// population, Span returns [ErrIncomplete]. An edge internal to a
// single component is still appended to that component's edge list, so
// the result is not guaranteed acyclic.
func Span(n int, relations []Relation) (*Spanning, error) {
	b := newBuilder(n)
	for _, r := range relations {
		rl, rr := b.find(r.Left), b.find(r.Right)

		var target *component
		switch {
		case rl == -1 && rr == -1:
			// Neither endpoint seen: start a new component. A fresh
			// component never triggers the spanning check - only
			// growth of an existing one can complete the structure.
			b.parent[r.Left] = r.Left
			b.parent[r.Right] = r.Left
			c := &component{vertices: roaring.New()}
			c.add(r)
			b.comps[r.Left] = c
			continue

		case rl != -1 && rr != -1 && rl != rr:
			target = b.comps[b.union(rl, rr)]

		case rl != -1 && rr == -1:
			b.parent[r.Right] = rl
			target = b.comps[rl]

		case rl == -1 && rr != -1:
			b.parent[r.Left] = rr
			target = b.comps[rr]

		default: // rl == rr: both endpoints already inside target
			target = b.comps[rl]
		}

		target.add(r)
		if target.vertices.GetCardinality() == uint64(n) {
			return &Spanning{Vertices: target.vertices, Edges: target.edges}, nil
		}
	}
	return nil, ErrIncomplete
}
