package factory

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// Creator is one concrete creator of the factory method pattern. Types
// marked with CreatorOf[K, T] must implement Creator[K, T].
type Creator[K any, T any] interface {
	CanCreate(key K) bool
	Create(key K) (T, error)
}

// Method is implemented by the generated creator lists.
type Method[K any, T any] interface {
	Creators() []Creator[K, T]
}

// CreateFirst asks every creator in order and returns the product of the
// first one that accepts key.
func CreateFirst[K any, T any](m Method[K, T], key K) (T, error) {
	var zero T
	for _, c := range m.Creators() {
		if c.CanCreate(key) {
			return c.Create(key)
		}
	}
	return zero, KeyNotFound(key)
}

// TryCreateFirst is like CreateFirst but reports failure with a boolean.
func TryCreateFirst[K any, T any](m Method[K, T], key K) (T, bool) {
	product, err := CreateFirst(m, key)
	if err != nil {
		var zero T
		return zero, false
	}
	return product, true
}

// CreateAllFor returns one product from every creator that accepts key.
func CreateAllFor[K any, T any](m Method[K, T], key K) ([]T, error) {
	var products []T
	for _, c := range m.Creators() {
		if !c.CanCreate(key) {
			continue
		}
		product, err := c.Create(key)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

// CanCreate reports whether any creator accepts key.
func CanCreate[K any, T any](m Method[K, T], key K) bool {
	for _, c := range m.Creators() {
		if c.CanCreate(key) {
			return true
		}
	}
	return false
}

// CacheMethod wraps m so that each creator returns the same product for the
// same key. Wrapping a cached method returns it unchanged.
func CacheMethod[K comparable, T any](m Method[K, T]) Method[K, T] {
	if c, ok := m.(*cachedMethod[K, T]); ok {
		return c
	}
	src := m.Creators()
	creators := make([]Creator[K, T], 0, len(src))
	for _, c := range src {
		creators = append(creators, &cachedCreator[K, T]{inner: c, products: make(map[K]T)})
	}
	return &cachedMethod[K, T]{creators: creators}
}

type cachedMethod[K comparable, T any] struct {
	creators []Creator[K, T]
}

func (m *cachedMethod[K, T]) Creators() []Creator[K, T] {
	out := make([]Creator[K, T], len(m.creators))
	copy(out, m.creators)
	return out
}

type cachedCreator[K comparable, T any] struct {
	inner    Creator[K, T]
	mu       sync.Mutex
	products map[K]T
}

func (c *cachedCreator[K, T]) CanCreate(key K) bool {
	return c.inner.CanCreate(key)
}

func (c *cachedCreator[K, T]) Create(key K) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.products[key]; ok {
		return p, nil
	}
	p, err := c.inner.Create(key)
	if err != nil {
		return p, err
	}
	c.products[key] = p
	return p, nil
}

type methodKey[K any, T any] struct{}

var methods sync.Map

// ProvideMethod publishes the creator list of (K, T). Generated init
// functions call it; a second call for the same pair is an error.
func ProvideMethod[K any, T any](m Method[K, T]) error {
	if m == nil {
		return errors.New("factory: nil method")
	}
	if _, loaded := methods.LoadOrStore(methodKey[K, T]{}, m); loaded {
		return errors.Wrapf(ErrDuplicateKey, "method for %T already provided", (*T)(nil))
	}
	return nil
}

// MethodFor returns the creator list published for (K, T).
func MethodFor[K any, T any]() (Method[K, T], bool) {
	v, ok := methods.Load(methodKey[K, T]{})
	if !ok {
		return nil, false
	}
	return v.(Method[K, T]), true
}
