package shapes

import "github.com/origadmin/factorygen/factory"

type Shape interface {
	Area() float64
}

type Circle struct {
	_ factory.ProductOf[string, Shape] `factory:"circle"`
	_ factory.ProductOf[string, Shape] `factory:"round"`

	Radius float64
}

func (c *Circle) Area() float64 { return 3.14159 * c.Radius * c.Radius }

type Square struct {
	_ factory.ProductOf[string, Shape] `factory:"square"`

	Side float64
}

func NewSquare() *Square { return &Square{Side: 1} }

func (s *Square) Area() float64 { return s.Side * s.Side }

// hexagon is only reachable through its key.
type hexagon struct {
	_ factory.ProductOf[string, Shape] `factory:"hexagon"`
}

func (hexagon) Area() float64 { return 2.598 }

// Plain is not marked.
type Plain struct{}

func (Plain) Area() float64 { return 0 }
