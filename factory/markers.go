package factory

// ProductOf marks the enclosing struct as a product of the simple-factory
// pattern. K is the key type and T the abstraction the product is created as.
//
// The key is given by the first value of the field's factory tag. Struct
// types that embed ProductOf act as custom markers: their `factory:"arg"`
// fields are positional arguments following the key, every other field is a
// property set by its lower camel case tag name.
type ProductOf[K comparable, T any] struct{}

// CreatorOf marks the enclosing struct as a creator of the factory-method
// pattern. The marked type must implement Creator[K, T].
type CreatorOf[K any, T any] struct{}
