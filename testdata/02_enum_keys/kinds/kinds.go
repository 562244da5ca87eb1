package kinds

import "github.com/origadmin/factorygen/factory"

type Kind int

const (
	KindUnknown Kind = iota
	KindCircle
	KindSquare
)

type Level uint8

type Shape interface{ Kind() Kind }

type Circle struct {
	_ factory.ProductOf[Kind, Shape] `factory:"KindCircle"`
}

func (Circle) Kind() Kind { return KindCircle }

type Square struct {
	_ factory.ProductOf[Kind, Shape] `factory:"2"`
}

func (Square) Kind() Kind { return KindSquare }

type Leveled interface{ Level() Level }

type Low struct {
	_ factory.ProductOf[Level, Leveled] `factory:"1"`
}

func (Low) Level() Level { return 1 }

type High struct {
	_ factory.ProductOf[Level, Leveled] `factory:"255"`
}

func (High) Level() Level { return 255 }

type Toggle interface{ On() bool }

type Flag struct {
	_ factory.ProductOf[bool, Toggle] `factory:"true"`
}

func (Flag) On() bool { return true }
