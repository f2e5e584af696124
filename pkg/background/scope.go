package background

import (
	"context"
	"sync"
	"time"
)

// Scope - groups goroutines which share one cancellation context.
// Workers are started with Go and receive the scope context,
// Cancel expires the context for all of them at once.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewScope - builds scope derived from parent context.
func NewScope(parent context.Context) *Scope {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Context - returns scope context.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Go - starts f in a new goroutine bound to the scope.
// Returns false and does not start anything when the scope is already expired.
func (s *Scope) Go(f func(ctx context.Context)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		f(s.ctx)
	}()
	return true
}

// Cancel - expires scope context, running workers are notified through ctx.Done().
func (s *Scope) Cancel() {
	// the lock orders Cancel against wg.Add in Go
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
}

// Wait - blocks until all workers are done or timeout is expired.
// Non-positive timeout means wait without limit.
// Returns true if all workers are done.
func (s *Scope) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	if timeout <= 0 {
		<-done
		return true
	}
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
