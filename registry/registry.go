// Package registry maps numeric ids to mounted instances.
//
// A registry replaces process-wide id tables: instances are added when they
// are mounted and removed when they are unmounted, and lookups by id return
// false once an instance is gone. Holding an id instead of a pointer lets
// long-lived references (a recycled row pointing at its list, a pending
// request pointing at its owner) fail softly after teardown.
package registry

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// ErrMounted is returned when an id is already in use.
var ErrMounted = errors.New("registry: id already mounted")

// Registry is a set of instances keyed by id. It is safe for concurrent use.
type Registry[T any] struct {
	mu        sync.RWMutex
	instances map[int]T
	nextID    int
	unmounted func(id int, instance T)
}

// New returns an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{instances: make(map[int]T)}
}

// SetUnmountFunc sets a callback invoked after an instance is removed.
func (r *Registry[T]) SetUnmountFunc(handler func(id int, instance T)) *Registry[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unmounted = handler
	return r
}

// Mount adds instance under a fresh id and returns it.
func (r *Registry[T]) Mount(instance T) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		r.nextID++
		if _, ok := r.instances[r.nextID]; !ok {
			break
		}
	}
	r.instances[r.nextID] = instance
	return r.nextID
}

// MountAt adds instance under id.
func (r *Registry[T]) MountAt(id int, instance T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.instances[id]; ok {
		return fmt.Errorf("mount %d: %w", id, ErrMounted)
	}
	r.instances[id] = instance
	return nil
}

// Unmount removes the instance with the given id. It reports whether an
// instance was removed.
func (r *Registry[T]) Unmount(id int) bool {
	r.mu.Lock()
	instance, ok := r.instances[id]
	if ok {
		delete(r.instances, id)
	}
	unmounted := r.unmounted
	r.mu.Unlock()

	if ok && unmounted != nil {
		unmounted(id, instance)
	}
	return ok
}

// Get returns the instance mounted under id.
func (r *Registry[T]) Get(id int) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	instance, ok := r.instances[id]
	return instance, ok
}

// IDs returns the mounted ids in ascending order.
func (r *Registry[T]) IDs() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.instances))
}

// Len returns the number of mounted instances.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.instances)
}
