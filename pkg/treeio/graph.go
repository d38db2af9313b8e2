package treeio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tbl3rd/bvg/pkg/bitvec"
	"github.com/tbl3rd/bvg/pkg/genealogy"
)

// Graph is the canonical node-link serialization of an inferred tree.
// Used for API responses, files, and cache payloads. Edges point from
// parent to child.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is one population member in the serialized tree.
type Node struct {
	ID     int    `json:"id" bson:"id"`
	Vector string `json:"vector,omitempty" bson:"vector,omitempty"` // bit string, when a population is attached
	Depth  int    `json:"depth" bson:"depth"`                       // hops from the progenitor
	Root   bool   `json:"root,omitempty" bson:"root,omitempty"`
}

// Edge is a directed parent-to-child link.
type Edge struct {
	From int `json:"from" bson:"from"`
	To   int `json:"to" bson:"to"`
}

// FromParents converts a parent array into its node-link form.
// Nodes appear in vertex-index order, edges in child-index order, so
// output is deterministic. pop may be nil; when present, each node
// carries its bit string.
func FromParents(p genealogy.Parents, pop *bitvec.Population) Graph {
	g := Graph{
		Nodes: make([]Node, len(p)),
		Edges: make([]Edge, 0, len(p)-1),
	}
	for i, parent := range p {
		n := Node{ID: i, Depth: p.Depth(i), Root: parent == genealogy.NoParent}
		if pop != nil {
			n.Vector = pop.Vectors[i].String()
		}
		g.Nodes[i] = n
		if parent != genealogy.NoParent {
			g.Edges = append(g.Edges, Edge{From: parent, To: i})
		}
	}
	return g
}

// ToParents converts a node-link graph back to a parent array.
// Returns an error when the graph does not describe a valid tree shape:
// out-of-range indices, a reparented child, or a parent count that
// doesn't leave exactly one root.
func ToParents(g Graph) (genealogy.Parents, error) {
	n := len(g.Nodes)
	parents := make(genealogy.Parents, n)
	for i := range parents {
		parents[i] = genealogy.NoParent
	}
	for _, e := range g.Edges {
		if e.From < 0 || e.From >= n || e.To < 0 || e.To >= n {
			return nil, fmt.Errorf("edge %d→%d out of range [0,%d)", e.From, e.To, n)
		}
		if parents[e.To] != genealogy.NoParent {
			return nil, fmt.Errorf("vertex %d has more than one parent", e.To)
		}
		parents[e.To] = e.From
	}
	if n > 0 && parents.Root() == -1 {
		return nil, fmt.Errorf("graph has no root")
	}
	roots := 0
	for _, p := range parents {
		if p == genealogy.NoParent {
			roots++
		}
	}
	if n > 0 && roots != 1 {
		return nil, fmt.Errorf("graph has %d roots, want 1", roots)
	}
	return parents, nil
}

// MarshalGraph converts a Graph to indented JSON bytes.
func MarshalGraph(g Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// WriteGraph writes a Graph as JSON to w.
func WriteGraph(g Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGraph decodes a JSON node-link graph from r.
func ReadGraph(r io.Reader) (Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return Graph{}, fmt.Errorf("decode: %w", err)
	}
	return g, nil
}
