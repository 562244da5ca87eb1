package a

import (
	"fmt"

	"github.com/origadmin/factorygen/factory"
)

type Shape interface{ Area() float64 }

type Circle struct {
	_ factory.ProductOf[string, Shape] `factory:"circle"`
}

func (Circle) Area() float64 { return 1 }

type Box[T any] struct { // want `SFG001: type a.Box\[T any\] has type parameters`
	_ factory.ProductOf[string, Sized] `factory:"box"`
}

type Sized interface{ Size() int }

func (Box[T]) Size() int { return 0 }

type Speaker interface{ Speak() string }

type Mute struct { // want `SFG004: type a.Mute does not implement a.Speaker; add the methods of a.Speaker`
	_ factory.ProductOf[string, Speaker] `factory:"mute"`
}

type Needy struct { // want `SFG002: product a.Needy must be constructible without arguments; NewNeedy requires arguments`
	_ factory.ProductOf[string, Counter] `factory:"needy"`
}

type Counter interface{ Count() int }

func NewNeedy(n int) *Needy { return &Needy{} }

func (*Needy) Count() int { return 0 }

type Label struct { // want `SFG005: type a.Label is not in the same module as fmt.Stringer it implements`
	_ factory.ProductOf[string, fmt.Stringer] `factory:"label"`
}

func (Label) String() string { return "label" }

type Broken struct {
	_ factory.ProductOf[int, Shape] `factory:"one"` // want `SFG006: malformed marker on a.Broken`
}

func (Broken) Area() float64 { return 0 }

type Document interface{ Body() string }

type Lazy struct { // want `SFG004: type a.Lazy does not implement factory.Creator\[string, a.Document\]`
	_ factory.CreatorOf[string, Document]
}

func (Lazy) CanCreate(string) bool { return true }

type Plain struct {
	_ factory.ProductOf[string, Shape] `factory:"circle"`
}

func (Plain) Area() float64 { return 0 }
