// Package factory is the runtime half of factorygen.
//
// Types are declared as products or creators by adding marker fields:
//
//	type Circle struct {
//		_ factory.ProductOf[string, Shape] `factory:"circle"`
//	}
//
//	type jsonCreator struct {
//		_ factory.CreatorOf[Input, Parser]
//	}
//
// The generator turns those markers into switch based factories, creator sets
// and init functions that fill the process wide registries of this package.
// Everything here is safe for concurrent use.
package factory
