package factory

import (
	"sync"

	"github.com/cockroachdb/errors"
)

var types = struct {
	sync.RWMutex
	ctors map[string]func() (any, error)
}{ctors: make(map[string]func() (any, error))}

// RegisterType makes an unexported type constructible by its qualified name
// from other packages. Generated init functions call it for every unexported
// product or creator; the last registration of a name wins.
func RegisterType(name string, ctor func() (any, error)) {
	types.Lock()
	types.ctors[name] = ctor
	types.Unlock()
}

// Activate constructs the type registered under name and returns it as T.
func Activate[T any](name string) (T, error) {
	var zero T
	types.RLock()
	ctor, ok := types.ctors[name]
	types.RUnlock()
	if !ok {
		return zero, errors.Wrapf(ErrTypeNotFound, "activate %q", name)
	}
	v, err := ctor()
	if err != nil {
		return zero, errors.Wrapf(err, "activate %q", name)
	}
	typed, ok := v.(T)
	if !ok {
		return zero, errors.Newf("factory: %q constructs %T which is not a %T", name, v, (*T)(nil))
	}
	return typed, nil
}

// MustActivate is like Activate but panics on error.
func MustActivate[T any](name string) T {
	v, err := Activate[T](name)
	if err != nil {
		panic(err)
	}
	return v
}
