package factory

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrKeyNotFound is returned when no product or creator is known for a key.
	ErrKeyNotFound = errors.New("factory: key not found")
	// ErrDuplicateKey is returned by Register when the Reject policy is in
	// effect and the key is already taken.
	ErrDuplicateKey = errors.New("factory: duplicate key")
	// ErrSealed is returned by Register once the registry has been sealed.
	ErrSealed = errors.New("factory: registry is sealed")
	// ErrUnexpectedArgs is returned when arguments are passed to a product
	// that does not implement Initializer.
	ErrUnexpectedArgs = errors.New("factory: product does not accept arguments")
	// ErrTypeNotFound is returned by Activate for unknown type names.
	ErrTypeNotFound = errors.New("factory: type not registered")
)

// KeyNotFound returns an error wrapping ErrKeyNotFound for key.
// Generated factories return it from the default branch of Create.
func KeyNotFound[K any](key K) error {
	return errors.Wrapf(ErrKeyNotFound, "no product for key %v", key)
}
