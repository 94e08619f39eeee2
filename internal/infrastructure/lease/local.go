// Package lease grants exclusive use of the price lookup provider, either within
// one process or across every process sharing a Redis instance.
package lease

import "context"

// LocalLease is a single-holder semaphore for one process
type LocalLease struct {
	slot chan struct{}
}

// NewLocalLease creates a free lease
func NewLocalLease() *LocalLease {
	return &LocalLease{slot: make(chan struct{}, 1)}
}

// Acquire blocks until the lease is free or ctx is done
func (l *LocalLease) Acquire(ctx context.Context) (func(), error) {
	select {
	case l.slot <- struct{}{}:
		return func() { <-l.slot }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
