package plugins

import "github.com/origadmin/factorygen/factory"

type Plugin interface{ Name() string }

type First struct {
	_ factory.ProductOf[string, Plugin] `factory:"square"`
	_ factory.ProductOf[string, Plugin] `factory:"first"`
}

func (First) Name() string { return "first" }

type Second struct {
	_ factory.ProductOf[string, Plugin] `factory:"square"`
}

func (Second) Name() string { return "second" }
