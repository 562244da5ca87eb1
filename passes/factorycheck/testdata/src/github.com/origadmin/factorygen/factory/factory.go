package factory

type ProductOf[K comparable, T any] struct{}

type CreatorOf[K any, T any] struct{}

type Creator[K any, T any] interface {
	CanCreate(key K) bool
	Create(key K) (T, error)
}
