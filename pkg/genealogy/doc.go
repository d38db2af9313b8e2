// Package genealogy reconstructs an inferred ancestry tree from a
// population of fixed-width bit vectors.
//
// The pipeline is strictly sequential and purely in-memory:
//
//  1. [Metric] scores every unordered pair of vectors with a normalized
//     bit distance - the absolute difference between the pair's Hamming
//     distance and the statistically expected mutation count.
//  2. [Span] greedily assembles a single connected structure touching
//     every vector, processing relations from most to least related.
//  3. [Extract] orients that structure into a rooted tree by repeatedly
//     peeling degree-one vertices, producing a parent-pointer array whose
//     unique unparented entry is the inferred progenitor.
//
// [Infer] runs all three stages.
//
// Both failure modes are properties of the input data, not transient
// faults: [ErrIncomplete] when the structure cannot cover the whole
// population, and [ErrNonConvergence] when peeling stalls because the
// structure was not a tree. Neither is retryable and no partial result
// is produced.
package genealogy
