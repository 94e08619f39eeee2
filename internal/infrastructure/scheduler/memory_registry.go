package scheduler

import (
	"context"
	"fmt"
	"sync"

	"flightstats-service/internal/domain/repository"
)

type memoryEntry struct {
	schedule string
	action   repository.JobAction
}

// MemoryRegistry records bindings without running them. Fire runs a tick on demand.
type MemoryRegistry struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryRegistry creates an empty registry
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{entries: make(map[string]memoryEntry)}
}

func (r *MemoryRegistry) AddOrUpdate(key string, schedule string, action repository.JobAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = memoryEntry{schedule: schedule, action: action}
	return nil
}

func (r *MemoryRegistry) RemoveIfExists(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
}

// Fire runs the action bound to key synchronously
func (r *MemoryRegistry) Fire(ctx context.Context, key string) error {
	r.mu.Lock()
	entry, ok := r.entries[key]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("no job bound to %s", key)
	}
	return entry.action(ctx)
}

// Has reports whether key is bound
func (r *MemoryRegistry) Has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[key]
	return ok
}

// Schedule returns the schedule bound to key
func (r *MemoryRegistry) Schedule(key string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[key].schedule
}

func (r *MemoryRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
