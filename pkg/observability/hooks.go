// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about inference runs and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach avoids import cycles (hooks are registered by main, not by
// libraries) and keeps the core library free of observability frameworks,
// while allowing different backends (OpenTelemetry, Prometheus, DataDog, etc.).
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetInferenceHooks(&myInferenceHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Inference().OnInferStart(ctx, vectorCount)
//	// ... run the pipeline ...
//	observability.Inference().OnInferComplete(ctx, vectorCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Inference Hooks
// =============================================================================

// InferenceHooks receives events from the genealogy pipeline.
type InferenceHooks interface {
	// OnInferStart is called before an inference run over a
	// population of vectorCount members.
	OnInferStart(ctx context.Context, vectorCount int)

	// OnStageComplete is called after each pipeline stage
	// ("load", "relate", "span", "extract").
	OnStageComplete(ctx context.Context, stage string, duration time.Duration)

	// OnInferComplete is called when a run finishes, successfully or
	// not.
	OnInferComplete(ctx context.Context, vectorCount int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopInferenceHooks is a no-op implementation of InferenceHooks.
type NoopInferenceHooks struct{}

func (NoopInferenceHooks) OnInferStart(context.Context, int)                          {}
func (NoopInferenceHooks) OnStageComplete(context.Context, string, time.Duration)     {}
func (NoopInferenceHooks) OnInferComplete(context.Context, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	inferenceHooks InferenceHooks = NoopInferenceHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	hooksMu        sync.RWMutex
)

// SetInferenceHooks registers custom inference hooks.
// This should be called once at application startup before any pipeline runs.
func SetInferenceHooks(h InferenceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		inferenceHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Inference returns the registered inference hooks.
func Inference() InferenceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return inferenceHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	inferenceHooks = NoopInferenceHooks{}
	cacheHooks = NoopCacheHooks{}
}
