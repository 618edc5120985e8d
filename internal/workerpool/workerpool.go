// Package workerpool implements the "N workers pull next-item indices via
// an atomic counter" shape used throughout the pipeline (spec.md §5):
// isomorphism's batch redundancy pass, ExtendNetwork, and CleanUp's passes
// all fan out over a shared read-only slice with no inter-element
// dependencies until a join barrier.
package workerpool

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// Workers returns n if n > 0, else runtime.GOMAXPROCS(0).
func Workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// Run calls work(i) for every i in [0, count), using up to workers
// goroutines pulling indices from a shared atomic counter, and blocks
// until every call has returned (the stage barrier of spec.md §5). Worker
// ordering is unspecified.
func Run(workers, count int, work func(i int)) {
	if count == 0 {
		return
	}
	workers = Workers(workers)
	if workers > count {
		workers = count
	}
	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= count {
					return
				}
				work(i)
			}
		}()
	}
	wg.Wait()
}

// RunContext is like Run, but work may observe ctx and the pool stops
// launching new indices once ctx is done; already-running calls to work
// are not interrupted. It returns ctx.Err() if the context was cancelled
// before all indices were processed, nil otherwise.
func RunContext(ctx context.Context, workers, count int, work func(ctx context.Context, i int)) error {
	if count == 0 {
		return nil
	}
	workers = Workers(workers)
	if workers > count {
		workers = count
	}
	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				i := int(next.Add(1)) - 1
				if i >= count {
					return
				}
				work(ctx, i)
			}
		}()
	}
	wg.Wait()
	return ctx.Err()
}

// Mutex-guarded flush buffer, the "per-network granularity" flush point of
// spec.md §4.5/§5: workers append to per-worker scratch and push the whole
// batch under one lock at the end of each unit of work, keeping contention
// bounded to one lock operation per unit rather than per element.
type Collector[T any] struct {
	mu  sync.Mutex
	all []T
}

// Push appends items under the collector's lock.
func (c *Collector[T]) Push(items ...T) {
	if len(items) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = append(c.all, items...)
}

// All returns every item pushed so far. Not safe to call concurrently with
// Push.
func (c *Collector[T]) All() []T { return c.all }

// AtomicFlags is one atomic boolean per candidate index, the "redundant"
// flag array of spec.md §4.3.4/§5: writes are a single store of true and
// are idempotent under concurrent marking; reads are best-effort.
type AtomicFlags struct {
	flags []atomic.Bool
}

// NewAtomicFlags returns n unset flags.
func NewAtomicFlags(n int) *AtomicFlags {
	return &AtomicFlags{flags: make([]atomic.Bool, n)}
}

// Mark sets flag i to true.
func (f *AtomicFlags) Mark(i int) { f.flags[i].Store(true) }

// IsSet reports flag i's current value (best-effort under concurrent marking).
func (f *AtomicFlags) IsSet(i int) bool { return f.flags[i].Load() }

// Len returns the number of flags.
func (f *AtomicFlags) Len() int { return len(f.flags) }
