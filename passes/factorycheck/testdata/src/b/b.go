package b

import "github.com/origadmin/factorygen/factory"

type Plugin interface{ Name() string }

type First struct {
	_ factory.ProductOf[string, Plugin] `factory:"square"`
}

func (First) Name() string { return "first" }

type Second struct {
	_ factory.ProductOf[string, Plugin] `factory:"square"` // want `SFG007: key "square" of b.Second is already used by b.First for target b.Plugin`
}

func (Second) Name() string { return "second" }
