package treeio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbl3rd/bvg/pkg/bitvec"
	"github.com/tbl3rd/bvg/pkg/genealogy"
)

var pathParents = genealogy.Parents{1, 2, genealogy.NoParent, 2}

func TestWriteReadParents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteParents(pathParents, &buf))
	assert.Equal(t, "1\n2\n-1\n2\n", buf.String())

	got, err := ReadParents(&buf)
	require.NoError(t, err)
	assert.Equal(t, pathParents, got)
}

func TestReadParentsRejectsJunk(t *testing.T) {
	_, err := ReadParents(strings.NewReader("1\ntwo\n-1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestFromParents(t *testing.T) {
	g := FromParents(pathParents, nil)

	require.Len(t, g.Nodes, 4)
	require.Len(t, g.Edges, 3)

	assert.True(t, g.Nodes[2].Root)
	assert.Equal(t, 0, g.Nodes[2].Depth)
	assert.Equal(t, 2, g.Nodes[0].Depth)
	assert.Equal(t, Edge{From: 1, To: 0}, g.Edges[0])
	assert.Empty(t, g.Nodes[0].Vector)
}

func TestFromParentsWithPopulation(t *testing.T) {
	pop, err := bitvec.Load(strings.NewReader("0000\n0001\n0011\n0111\n"))
	require.NoError(t, err)

	g := FromParents(pathParents, pop)
	assert.Equal(t, "0011", g.Nodes[2].Vector)
}

func TestToParentsRoundTrip(t *testing.T) {
	g := FromParents(pathParents, nil)
	got, err := ToParents(g)
	require.NoError(t, err)
	assert.Equal(t, pathParents, got)
}

func TestToParentsRejectsBadShapes(t *testing.T) {
	nodes := []Node{{ID: 0}, {ID: 1}, {ID: 2}}

	tests := []struct {
		name  string
		edges []Edge
	}{
		{"out of range", []Edge{{From: 0, To: 5}}},
		{"two parents", []Edge{{From: 0, To: 2}, {From: 1, To: 2}}},
		{"no edges leaves several roots", []Edge{{From: 0, To: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToParents(Graph{Nodes: nodes, Edges: tt.edges})
			assert.Error(t, err)
		})
	}
}

func TestGraphJSONRoundTrip(t *testing.T) {
	g := FromParents(pathParents, nil)

	var buf bytes.Buffer
	require.NoError(t, WriteGraph(g, &buf))

	got, err := ReadGraph(&buf)
	require.NoError(t, err)
	assert.Equal(t, g, got)
}

func TestToDOT(t *testing.T) {
	g := FromParents(pathParents, nil)
	dot := ToDOT(g, DOTOptions{})

	assert.Contains(t, dot, "digraph genealogy")
	assert.Contains(t, dot, "1 -> 0;")
	assert.Contains(t, dot, "2 -> 1;")
	assert.Contains(t, dot, "2 -> 3;")
	// The progenitor gets the doubled outline.
	assert.Contains(t, dot, "peripheries=2")
	assert.Equal(t, 1, strings.Count(dot, "peripheries=2"))
}

func TestToDOTWithVectors(t *testing.T) {
	pop, err := bitvec.Load(strings.NewReader("0000\n0001\n0011\n0111\n"))
	require.NoError(t, err)

	dot := ToDOT(FromParents(pathParents, pop), DOTOptions{Vectors: true})
	assert.Contains(t, dot, "0011")
}
