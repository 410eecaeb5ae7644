package runtime

import (
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// LoaderLock is the "non-reentrant flag preventing recursive module load of
// the same path" from spec.md §5: it detects import cycles and fails fast
// with a "circular import" error rather than deadlocking. Each distinct
// path gets its own weight-1 semaphore, acquired with TryAcquire so a
// recursive load of the same path observes it already held instead of
// blocking.
type LoaderLock struct {
	mu   sync.Mutex
	held map[string]*semaphore.Weighted
}

// NewLoaderLock returns a LoaderLock with nothing currently held.
func NewLoaderLock() *LoaderLock {
	return &LoaderLock{held: make(map[string]*semaphore.Weighted)}
}

// Acquire locks path for the duration of a module load. It fails with a
// "circular import" error if path is already being loaded by an enclosing
// call on the same goroutine's call stack (the only case that can arise in
// the single-threaded core of spec.md §5), and returns a release function
// the caller must run on every exit path, including error unwind.
func (l *LoaderLock) Acquire(path string) (release func(), err error) {
	l.mu.Lock()
	sem, ok := l.held[path]
	if !ok {
		sem = semaphore.NewWeighted(1)
		l.held[path] = sem
	}
	l.mu.Unlock()

	if !sem.TryAcquire(1) {
		return nil, fmt.Errorf("circular import: %q is already being loaded", path)
	}
	return func() {
		sem.Release(1)
		l.mu.Lock()
		if s := l.held[path]; s == sem && sem.TryAcquire(1) {
			sem.Release(1)
			delete(l.held, path)
		}
		l.mu.Unlock()
	}, nil
}
