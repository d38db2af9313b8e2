package genealogy

import (
	"sort"

	"github.com/tbl3rd/bvg/pkg/bitvec"
)

// Relation is a scored candidate edge between two population members.
// Left and Right are population indices; their order is fixed at
// creation (Left < Right for relations built by Relations) but carries
// no meaning. Relations are created once in bulk and never mutated,
// only ordered and filtered.
type Relation struct {
	Left  int
	Right int
	NBD   int // normalized bit distance
}

// Relations computes the relation for every unordered pair in the
// population: N(N-1)/2 entries, with Left < Right.
func Relations(pop *bitvec.Population, m Metric) []Relation {
	n := pop.Size()
	rels := make([]Relation, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			rels = append(rels, Relation{
				Left:  i,
				Right: j,
				NBD:   m.Distance(pop.Vectors[i], pop.Vectors[j]),
			})
		}
	}
	return rels
}

// SortRelations orders relations from most to least related. Ties on
// distance break on (Left, Right) so that the full pipeline is
// deterministic: the same input always yields the same parent array.
func SortRelations(rels []Relation) {
	sort.Slice(rels, func(i, j int) bool {
		a, b := rels[i], rels[j]
		if a.NBD != b.NBD {
			return a.NBD < b.NBD
		}
		if a.Left != b.Left {
			return a.Left < b.Left
		}
		return a.Right < b.Right
	})
}
