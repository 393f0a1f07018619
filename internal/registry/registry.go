// Package registry stores subscribers by exact topic key.
package registry

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/pubsub/internal/topic"
)

// Binding is a snapshot of one topic and its subscribers.
type Binding[S comparable] struct {
	Topic       string
	Subscribers []S
}

// Registry maps topic keys to ordered subscriber lists.
// Topic keys are kept in insertion order. It is safe for concurrent use.
type Registry[S comparable] struct {
	mu    sync.RWMutex
	id    string
	order []string
	subs  map[string][]S
}

// New creates an empty registry with a fresh ID.
func New[S comparable]() *Registry[S] {
	return &Registry[S]{
		id:   uuid.NewString(),
		subs: make(map[string][]S),
	}
}

// ID returns the registry's unique identifier.
func (r *Registry[S]) ID() string {
	return r.id
}

// Add binds s to key. It returns false if s was already bound to key.
func (r *Registry[S]) Add(key string, s S) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, exists := r.subs[key]
	if !exists {
		r.order = append(r.order, key)
	}
	for _, existing := range subs {
		if existing == s {
			return false
		}
	}
	r.subs[key] = append(subs, s)
	return true
}

// Remove unbinds s from key. The key itself is kept even if its list becomes empty.
func (r *Registry[S]) Remove(key string, s S) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.removeLocked(key, s)
}

// Delete removes key and every subscriber bound to it.
// It returns the number of bindings removed and whether key was present.
func (r *Registry[S]) Delete(key string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.deleteLocked(key)
}

// RemoveMatching unbinds s from every key accepted by match.
// Returns the number of keys s was removed from.
func (r *Registry[S]) RemoveMatching(match topic.Predicate, s S) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	topic.Each(r.keysLocked(), match, r.presentLocked, func(key string) {
		if r.removeLocked(key, s) {
			removed++
		}
	})
	return removed
}

// DeleteMatching removes every key accepted by match.
// Returns the number of keys deleted and the number of bindings they held.
func (r *Registry[S]) DeleteMatching(match topic.Predicate) (keys, bindings int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	topic.Each(r.keysLocked(), match, r.presentLocked, func(key string) {
		if n, ok := r.deleteLocked(key); ok {
			keys++
			bindings += n
		}
	})
	return keys, bindings
}

// Match returns a snapshot of every key accepted by match, in insertion order.
// Keys whose subscriber list is empty are included with an empty list.
func (r *Registry[S]) Match(match topic.Predicate) []Binding[S] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Binding[S]
	topic.Each(r.order, match, r.presentLocked, func(key string) {
		subs := r.subs[key]
		cp := make([]S, len(subs))
		copy(cp, subs)
		result = append(result, Binding[S]{Topic: key, Subscribers: cp})
	})
	return result
}

// Subscribers returns a copy of the subscribers bound to key.
func (r *Registry[S]) Subscribers(key string) []S {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := r.subs[key]
	if len(subs) == 0 {
		return nil
	}
	result := make([]S, len(subs))
	copy(result, subs)
	return result
}

// Topics returns all keys in insertion order.
func (r *Registry[S]) Topics() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.keysLocked()
}

// Count returns the total number of bindings across all keys.
func (r *Registry[S]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, subs := range r.subs {
		count += len(subs)
	}
	return count
}

func (r *Registry[S]) removeLocked(key string, s S) bool {
	subs := r.subs[key]
	for i, existing := range subs {
		if existing == s {
			r.subs[key] = append(subs[:i:i], subs[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Registry[S]) deleteLocked(key string) (int, bool) {
	subs, ok := r.subs[key]
	if !ok {
		return 0, false
	}
	delete(r.subs, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return len(subs), true
}

func (r *Registry[S]) presentLocked(key string) bool {
	_, ok := r.subs[key]
	return ok
}

// keysLocked copies the key order so callers may mutate the registry while iterating.
func (r *Registry[S]) keysLocked() []string {
	if len(r.order) == 0 {
		return nil
	}
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}
