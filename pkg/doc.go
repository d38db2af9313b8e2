// Package pkg provides the core libraries for bvg genealogy inference.
//
// # Overview
//
// Bvg reconstructs the descent tree of a population of binary vectors.
// The pkg directory is organized into three main areas:
//
//  1. [bitvec], [genealogy] - Domain logic (populations, metric, spanning, extraction)
//  2. [cache], [config], [errors], [observability] - Infrastructure
//  3. [pipeline], [server], [treeio] - Orchestration, HTTP API, serialization
//
// # Architecture
//
// The typical data flow through bvg:
//
//	Population file (one bit string per line)
//	         ↓
//	    [bitvec] package (parse and validate vectors)
//	         ↓
//	    [genealogy] package (relate pairs, span, extract tree)
//	         ↓
//	    [treeio] package (parent table, JSON, DOT, SVG/PNG)
//
// [pipeline] orchestrates the stages with caching and logging; the CLI
// and [server] both drive it, so local runs and API requests share
// semantics and cache entries.
package pkg
