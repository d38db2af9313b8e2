package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Inference hooks
	p := NoopInferenceHooks{}
	p.OnInferStart(ctx, 100)
	p.OnStageComplete(ctx, "relate", time.Second)
	p.OnInferComplete(ctx, 100, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "result")
	c.OnCacheMiss(ctx, "result")
	c.OnCacheSet(ctx, "artifact", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Inference().(NoopInferenceHooks); !ok {
		t.Error("Inference() should return NoopInferenceHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Set custom hooks
	customInference := &testInferenceHooks{}
	SetInferenceHooks(customInference)
	if Inference() != customInference {
		t.Error("SetInferenceHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Inference().(NoopInferenceHooks); !ok {
		t.Error("Reset() should restore NoopInferenceHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testInferenceHooks{}
	SetInferenceHooks(custom)

	// Setting nil should be ignored
	SetInferenceHooks(nil)

	if Inference() != custom {
		t.Error("SetInferenceHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testInferenceHooks struct{ NoopInferenceHooks }
type testCacheHooks struct{ NoopCacheHooks }
