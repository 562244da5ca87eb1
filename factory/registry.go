package factory

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// DuplicatePolicy decides what Register does with a key that is already
// registered.
type DuplicatePolicy int

const (
	// Replace keeps the position of the first registration and the value of
	// the last one.
	Replace DuplicatePolicy = iota
	// Reject fails the registration with ErrDuplicateKey.
	Reject
)

// String implements fmt.Stringer.
func (p DuplicatePolicy) String() string {
	switch p {
	case Replace:
		return "replace"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

// Entry is one registered product.
type Entry[K comparable, T any] struct {
	Key K
	// TypeName is the qualified name of the product, "<pkgpath>.<name>".
	TypeName string
	// New constructs a fresh product.
	New  func() (T, error)
	Tags Tags
}

// Option configures a single registration.
type Option func(*registerOptions)

type registerOptions struct {
	policy DuplicatePolicy
}

// OnDuplicate sets the duplicate policy of a registration.
func OnDuplicate(policy DuplicatePolicy) Option {
	return func(o *registerOptions) {
		o.policy = policy
	}
}

// Registry maps keys of type K to products of type T. There is one registry
// per (K, T) pair in a process, see Products. It is written by generated init
// functions and read afterwards; Seal makes the read-only phase explicit.
type Registry[K comparable, T any] struct {
	mu      sync.RWMutex
	entries map[K]*Entry[K, T]
	order   []K
	sealed  bool
}

// NewRegistry returns an empty, unshared registry.
func NewRegistry[K comparable, T any]() *Registry[K, T] {
	return &Registry[K, T]{
		entries: make(map[K]*Entry[K, T]),
	}
}

type registryKey[K comparable, T any] struct{}

var registries sync.Map

// Products returns the process wide registry for (K, T).
func Products[K comparable, T any]() *Registry[K, T] {
	if r, ok := registries.Load(registryKey[K, T]{}); ok {
		return r.(*Registry[K, T])
	}
	r, _ := registries.LoadOrStore(registryKey[K, T]{}, NewRegistry[K, T]())
	return r.(*Registry[K, T])
}

// Register adds entry to the process wide registry of (K, T).
func Register[K comparable, T any](entry Entry[K, T], opts ...Option) error {
	return Products[K, T]().Register(entry, opts...)
}

// MustRegister is like Register but panics on error. Generated init functions
// use it so that a conflicting registration stops the program at startup.
func MustRegister[K comparable, T any](entry Entry[K, T], opts ...Option) {
	if err := Register(entry, opts...); err != nil {
		panic(err)
	}
}

// Register adds entry to r.
func (r *Registry[K, T]) Register(entry Entry[K, T], opts ...Option) error {
	if entry.New == nil {
		return errors.Newf("factory: entry %v (%s) has no constructor", entry.Key, entry.TypeName)
	}
	o := registerOptions{policy: Replace}
	for _, opt := range opts {
		opt(&o)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return errors.Wrapf(ErrSealed, "register %v", entry.Key)
	}
	if r.entries == nil {
		r.entries = make(map[K]*Entry[K, T])
	}
	if prev, ok := r.entries[entry.Key]; ok {
		if o.policy == Reject {
			return errors.Wrapf(ErrDuplicateKey, "key %v is taken by %s, cannot register %s",
				entry.Key, prev.TypeName, entry.TypeName)
		}
	} else {
		r.order = append(r.order, entry.Key)
	}
	e := entry
	r.entries[entry.Key] = &e
	return nil
}

// Seal stops further registrations.
func (r *Registry[K, T]) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Sealed reports whether Seal has been called.
func (r *Registry[K, T]) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Lookup returns the entry registered for key.
func (r *Registry[K, T]) Lookup(key K) (Entry[K, T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	if !ok {
		return Entry[K, T]{}, false
	}
	return *e, true
}

// Contains reports whether key is registered.
func (r *Registry[K, T]) Contains(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Len returns the number of registered keys.
func (r *Registry[K, T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Keys returns the registered keys in registration order.
func (r *Registry[K, T]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]K, len(r.order))
	copy(keys, r.order)
	return keys
}

// Entries returns a snapshot of all entries in registration order.
func (r *Registry[K, T]) Entries() []Entry[K, T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]Entry[K, T], 0, len(r.order))
	for _, key := range r.order {
		entries = append(entries, *r.entries[key])
	}
	return entries
}
