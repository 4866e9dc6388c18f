package scanner

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsEverySubmittedFunction(t *testing.T) {
	p := NewPool(4)
	var ran atomic.Int32

	for i := 0; i < 100; i++ {
		require.NoError(t, p.Submit(context.Background(), func() {
			ran.Add(1)
		}))
	}
	p.Wait()

	assert.Equal(t, int32(100), ran.Load())
}

func TestPool_SizeClamp(t *testing.T) {
	assert.Equal(t, 1, NewPool(0).Size())
	assert.Equal(t, 1, NewPool(-5).Size())
	assert.Equal(t, 8, NewPool(8).Size())
}

func TestPool_NeverExceedsSize(t *testing.T) {
	const size = 2
	p := NewPool(size)

	var running, peak atomic.Int32
	for i := 0; i < 20; i++ {
		require.NoError(t, p.Submit(context.Background(), func() {
			n := running.Add(1)
			for {
				cur := peak.Load()
				if n <= cur || peak.CompareAndSwap(cur, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			running.Add(-1)
		}))
	}
	p.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(size))
}

func TestPool_SubmitHonoursCancelledContext(t *testing.T) {
	p := NewPool(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	err := p.Submit(ctx, func() { ran.Store(true) })
	require.ErrorIs(t, err, context.Canceled)

	p.Wait()
	assert.False(t, ran.Load())
}

func TestPool_SubmitUnblocksOnCancelWhileFull(t *testing.T) {
	p := NewPool(1)
	release := make(chan struct{})

	var ran atomic.Int32
	require.NoError(t, p.Submit(context.Background(), func() {
		<-release
		ran.Add(1)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := p.Submit(ctx, func() { ran.Add(1) })
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	p.Wait()
	assert.Equal(t, int32(1), ran.Load())
}
