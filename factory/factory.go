package factory

import (
	"github.com/cockroachdb/errors"
)

// Simple is implemented by the switch based factories emitted by the
// generator, one per target abstraction.
type Simple[K comparable, T any] interface {
	// Keys returns every key the factory can create a product for.
	Keys() []K
	// Create returns a new product for key or an error wrapping
	// ErrKeyNotFound.
	Create(key K) (T, error)
}

// Initializer is implemented by products that accept construction arguments.
type Initializer interface {
	Init(args ...any) error
}

// CreatorFunc builds a product from its registry entry and the arguments
// given to Create.
type CreatorFunc[K comparable, T any] func(entry Entry[K, T], args []any) (T, error)

// DefaultCreator calls the entry constructor and, when arguments are given,
// passes them to the product's Init method.
func DefaultCreator[K comparable, T any](entry Entry[K, T], args []any) (T, error) {
	var zero T
	product, err := entry.New()
	if err != nil {
		return zero, errors.Wrapf(err, "create %s", entry.TypeName)
	}
	if len(args) == 0 {
		return product, nil
	}
	initializer, ok := any(product).(Initializer)
	if !ok {
		return zero, errors.Wrapf(ErrUnexpectedArgs, "create %s with %d arguments", entry.TypeName, len(args))
	}
	if err := initializer.Init(args...); err != nil {
		return zero, errors.Wrapf(err, "initialize %s", entry.TypeName)
	}
	return product, nil
}

// Factory creates products registered in a Registry. The zero value is not
// usable, use For or New.
type Factory[K comparable, T any] struct {
	registry *Registry[K, T]
	creator  CreatorFunc[K, T]
	cache    *productCache
}

// For returns a factory over the process wide registry of (K, T).
func For[K comparable, T any]() *Factory[K, T] {
	return New(Products[K, T]())
}

// New returns a factory over registry.
func New[K comparable, T any](registry *Registry[K, T]) *Factory[K, T] {
	return &Factory[K, T]{
		registry: registry,
		creator:  DefaultCreator[K, T],
	}
}

// Registry returns the registry backing f.
func (f *Factory[K, T]) Registry() *Registry[K, T] {
	return f.registry
}

// Keys returns the registered keys in registration order.
func (f *Factory[K, T]) Keys() []K {
	return f.registry.Keys()
}

// Contains reports whether a product is registered for key.
func (f *Factory[K, T]) Contains(key K) bool {
	return f.registry.Contains(key)
}

// Tags returns the tags of the product registered for key.
func (f *Factory[K, T]) Tags(key K) (Tags, bool) {
	e, ok := f.registry.Lookup(key)
	if !ok {
		return nil, false
	}
	return e.Tags, true
}

// Create returns the product registered for key.
func (f *Factory[K, T]) Create(key K, args ...any) (T, error) {
	var zero T
	entry, ok := f.registry.Lookup(key)
	if !ok {
		return zero, KeyNotFound(key)
	}
	if f.cache == nil {
		return f.creator(entry, args)
	}
	ck := cacheKey(key, args)
	if v, ok := f.cache.get(ck); ok {
		return v.(T), nil
	}
	product, err := f.creator(entry, args)
	if err != nil {
		return zero, err
	}
	f.cache.add(ck, product)
	return product, nil
}

// MustCreate is like Create but panics on error.
func (f *Factory[K, T]) MustCreate(key K, args ...any) T {
	product, err := f.Create(key, args...)
	if err != nil {
		panic(err)
	}
	return product
}

// TryCreate is like Create but reports failure with a boolean.
func (f *Factory[K, T]) TryCreate(key K, args ...any) (T, bool) {
	product, err := f.Create(key, args...)
	if err != nil {
		var zero T
		return zero, false
	}
	return product, true
}

// CreateAll creates one product per registered key, in registration order.
func (f *Factory[K, T]) CreateAll(args ...any) ([]T, error) {
	keys := f.registry.Keys()
	products := make([]T, 0, len(keys))
	for _, key := range keys {
		product, err := f.Create(key, args...)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

// WithCreator returns a factory that builds products with creator. The
// returned factory is not cached, whatever f was.
func (f *Factory[K, T]) WithCreator(creator CreatorFunc[K, T]) *Factory[K, T] {
	if creator == nil {
		creator = DefaultCreator[K, T]
	}
	return &Factory[K, T]{
		registry: f.registry,
		creator:  creator,
	}
}

// WithCache returns a factory that memoizes products per key and arguments.
// Calling it on a cached factory returns the factory unchanged.
func (f *Factory[K, T]) WithCache() *Factory[K, T] {
	return f.WithCacheSize(DefaultCacheSize)
}

// WithCacheSize is like WithCache with a bounded number of cached products.
func (f *Factory[K, T]) WithCacheSize(size int) *Factory[K, T] {
	if f.cache != nil {
		return f
	}
	return &Factory[K, T]{
		registry: f.registry,
		creator:  f.creator,
		cache:    newProductCache(size),
	}
}

// Cached reports whether f memoizes products.
func (f *Factory[K, T]) Cached() bool {
	return f.cache != nil
}

// Must returns v and panics when err is not nil. Generated creator lists use
// it for constructors that can fail.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
