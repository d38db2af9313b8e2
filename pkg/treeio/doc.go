// Package treeio provides serialization for inferred genealogy trees.
//
// The core pipeline hands its consumers a bare parent-pointer array;
// this package is the boundary where that array becomes something a
// human or another tool can use:
//
//   - [WriteParents]/[ReadParents]: the reference text format, one
//     parent index per line in vertex order, -1 marking the progenitor
//   - [Graph]: a node-link JSON format for API responses and storage,
//     with bson tags so the same types serialize into MongoDB
//   - [ToDOT], [RenderSVG], [RenderPNG]: Graphviz visualization of the
//     inferred tree
//
// Nothing here mutates the parent array; every export is a pure
// rendering of it.
package treeio
