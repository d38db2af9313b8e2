package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinner(context.Background(), "working...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	assert.False(t, s.Cancelled())
}

func TestSpinnerStopTwice(t *testing.T) {
	s := newSpinner(context.Background(), "working...")
	s.Start()
	s.Stop()
	s.Stop() // must not panic or block
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, "working...")
	s.Start()

	cancel()
	s.Stop()

	assert.True(t, s.Cancelled())
}
