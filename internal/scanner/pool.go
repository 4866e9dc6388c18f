package scanner

import (
	"context"
	"sync"
)

// Pool runs submitted functions on goroutines with at most size of them
// executing at once. Submit blocks while every slot is busy.
//
// Functions run on the pool must not Submit to the same pool; directory
// recursion stays on the caller's goroutine so a small pool cannot starve.
type Pool struct {
	semaphore chan struct{}
	wg        sync.WaitGroup
}

// NewPool creates a Pool with size slots. A size below 1 is treated as 1.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		semaphore: make(chan struct{}, size),
	}
}

// Size returns the maximum number of concurrently running functions.
func (p *Pool) Size() int {
	return cap(p.semaphore)
}

// Submit waits for a free slot and runs fn on a new goroutine.
// It returns ctx.Err() without running fn if ctx is done first.
func (p *Pool) Submit(ctx context.Context, fn func()) error {
	// Check the context before the select so a cancelled context never wins
	// a race against a free slot.
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.semaphore <- struct{}{}:
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() { <-p.semaphore }()
		fn()
	}()
	return nil
}

// Wait blocks until every submitted function has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}
