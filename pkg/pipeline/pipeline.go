// Package pipeline composes the full genealogy run for CLI and API use.
//
// The pipeline consists of four stages:
//
//  1. Load: validate the raw population bytes into bit vectors
//  2. Relate: score every unordered pair with the normalized bit distance
//  3. Span: greedily assemble the minimum-relatedness spanning structure
//  4. Extract: orient the structure into a rooted tree by leaf peeling
//
// By centralizing this logic we ensure the CLI and the HTTP server
// behave identically, including caching: results are keyed by a content
// hash of the population bytes plus the mutation percentage, so a rerun
// over unchanged input is a cache read instead of an O(N²) computation.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	result, err := runner.InferBytes(ctx, data, pipeline.Options{Percent: 20})
//	if err != nil {
//	    // errors.Is(err, genealogy.ErrIncomplete) etc.
//	}
//	fmt.Println(result.Parents)
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tbl3rd/bvg/pkg/bitvec"
	"github.com/tbl3rd/bvg/pkg/cache"
	"github.com/tbl3rd/bvg/pkg/genealogy"
	"github.com/tbl3rd/bvg/pkg/observability"
)

// DefaultCacheTTL is how long cached results stay valid. Results are
// content-addressed so staleness is impossible; the TTL only bounds
// disk usage.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Percent is the per-bit mutation probability as an integer
	// percentage in [0,100].
	Percent int `json:"percent"`

	// Refresh bypasses the cache and recomputes.
	Refresh bool `json:"refresh,omitempty"`

	// CacheTTL overrides DefaultCacheTTL when positive.
	CacheTTL time.Duration `json:"-"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	VectorCount   int           `json:"vector_count"`
	RelationCount int           `json:"relation_count"`
	EdgeCount     int           `json:"edge_count"`
	LoadTime      time.Duration `json:"-"`
	RelateTime    time.Duration `json:"-"`
	SpanTime      time.Duration `json:"-"`
	ExtractTime   time.Duration `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this run in logs.
	RunID string

	// Parents is the inferred parent-pointer array.
	Parents genealogy.Parents

	// Root is the index of the inferred progenitor.
	Root int

	// PopHash is the content hash of the population input; artifact
	// caching keys off it.
	PopHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the parent array came from cache.
	CacheHit bool
}

// Runner executes the genealogy pipeline with caching and logging.
type Runner struct {
	cache  cache.Cache
	logger *log.Logger
}

// NewRunner creates a pipeline runner. A nil cache disables caching;
// a nil logger discards log output.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{cache: c, logger: logger}
}

// Close releases the runner's cache backend.
func (r *Runner) Close() error {
	return r.cache.Close()
}

// cachedResult is the cache payload shape.
type cachedResult struct {
	Parents []int `json:"parents"`
	Stats   Stats `json:"stats"`
}

// InferBytes runs the full pipeline over raw population bytes (the
// line-oriented '0'/'1' format), consulting the cache first.
func (r *Runner) InferBytes(ctx context.Context, data []byte, opts Options) (*Result, error) {
	runID := uuid.NewString()
	logger := r.logger.With("run", shortID(runID))

	popHash := cache.Hash(data)
	key := cache.ResultKey(popHash, opts.Percent)

	if !opts.Refresh {
		if payload, hit, err := r.cache.Get(ctx, key); err == nil && hit {
			var cached cachedResult
			if err := json.Unmarshal(payload, &cached); err == nil {
				logger.Debug("cache hit", "key", key)
				observability.Cache().OnCacheHit(ctx, "result")
				parents := genealogy.Parents(cached.Parents)
				return &Result{
					RunID:    runID,
					Parents:  parents,
					Root:     parents.Root(),
					PopHash:  popHash,
					Stats:    cached.Stats,
					CacheHit: true,
				}, nil
			}
			// Corrupt payload: recompute.
			_ = r.cache.Delete(ctx, key)
		}
		observability.Cache().OnCacheMiss(ctx, "result")
	}

	start := time.Now()
	pop, err := bitvec.Load(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	loadTime := time.Since(start)
	logger.Debug("loaded population", "vectors", pop.Size(), "elapsed", loadTime.Round(time.Millisecond))
	observability.Inference().OnStageComplete(ctx, "load", loadTime)

	result, err := r.Infer(ctx, pop, opts)
	if err != nil {
		return nil, err
	}
	result.RunID = runID
	result.PopHash = popHash
	result.Stats.LoadTime = loadTime

	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if payload, err := json.Marshal(cachedResult{Parents: result.Parents, Stats: result.Stats}); err == nil {
		if err := r.cache.Set(ctx, key, payload, ttl); err != nil {
			logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "result", len(payload))
		}
	}

	return result, nil
}

// Infer runs the core stages over an already-validated population.
// No caching happens at this level; callers with raw bytes should
// prefer InferBytes.
func (r *Runner) Infer(ctx context.Context, pop *bitvec.Population, opts Options) (result *Result, err error) {
	n := pop.Size()
	runStart := time.Now()
	observability.Inference().OnInferStart(ctx, n)
	defer func() {
		observability.Inference().OnInferComplete(ctx, n, time.Since(runStart), err)
	}()

	m, err := genealogy.NewMetric(n, opts.Percent)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rels := genealogy.Relations(pop, m)
	genealogy.SortRelations(rels)
	relateTime := time.Since(start)
	r.logger.Debug("scored relations", "pairs", len(rels), "expected", m.Expected(), "elapsed", relateTime.Round(time.Millisecond))
	observability.Inference().OnStageComplete(ctx, "relate", relateTime)

	start = time.Now()
	span, err := genealogy.Span(n, rels)
	if err != nil {
		return nil, fmt.Errorf("span population: %w", err)
	}
	spanTime := time.Since(start)
	r.logger.Debug("assembled spanning structure", "edges", len(span.Edges), "elapsed", spanTime.Round(time.Millisecond))
	observability.Inference().OnStageComplete(ctx, "span", spanTime)

	start = time.Now()
	parents, err := genealogy.Extract(n, span.Edges)
	if err != nil {
		return nil, fmt.Errorf("extract genealogy: %w", err)
	}
	extractTime := time.Since(start)
	r.logger.Debug("extracted tree", "root", parents.Root(), "elapsed", extractTime.Round(time.Millisecond))
	observability.Inference().OnStageComplete(ctx, "extract", extractTime)

	return &Result{
		Parents: parents,
		Root:    parents.Root(),
		Stats: Stats{
			VectorCount:   n,
			RelationCount: len(rels),
			EdgeCount:     len(span.Edges),
			RelateTime:    relateTime,
			SpanTime:      spanTime,
			ExtractTime:   extractTime,
		},
	}, nil
}

// shortID trims a UUID to its first group for compact log lines.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
