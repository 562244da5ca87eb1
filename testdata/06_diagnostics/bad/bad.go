package bad

import "github.com/origadmin/factorygen/factory"

// SFG001

type Boxed interface{ Open() }

type Box[T any] struct {
	_ factory.ProductOf[string, Boxed] `factory:"box"`

	value T
}

func (Box[T]) Open() {}

// SFG002

type Sized interface{ Size() int }

type Needy struct {
	_ factory.ProductOf[string, Sized] `factory:"needy"`

	size int
}

func NewNeedy(size int) *Needy { return &Needy{size: size} }

func (n *Needy) Size() int { return n.size }

type Easy struct {
	_ factory.ProductOf[string, Sized] `factory:"easy"`
}

func (Easy) Size() int { return 0 }

// SFG003

type Mixed interface{ Mix() }

type ByName struct {
	_ factory.ProductOf[string, Mixed] `factory:"name"`
}

func (ByName) Mix() {}

type ByNumber struct {
	_ factory.ProductOf[int, Mixed] `factory:"1"`
}

func (ByNumber) Mix() {}

// SFG004

type Speaker interface{ Speak() string }

type Mute struct {
	_ factory.ProductOf[string, Speaker] `factory:"mute"`
}

type Loud struct {
	_ factory.ProductOf[string, Speaker] `factory:"loud"`
}

func (Loud) Speak() string { return "!" }

type Base struct{}

type Derived struct {
	_ factory.ProductOf[string, Base] `factory:"derived"`
}

type Lister interface{ List() []string }

type BrokenCreator struct {
	_ factory.CreatorOf[string, Lister]
}

func (BrokenCreator) CanCreate(string) bool { return true }

// SFG006

type Named interface{ Name() string }

type NoKey struct {
	_ factory.ProductOf[string, Named]
}

func (NoKey) Name() string { return "nokey" }

type Numbered interface{ Number() int }

type WrongKey struct {
	_ factory.ProductOf[int, Numbered] `factory:"abc"`
}

func (WrongKey) Number() int { return 0 }

type Overflow struct {
	_ factory.ProductOf[int8, Numbered] `factory:"300"`
}

func (Overflow) Number() int { return 300 }

type GoodNumber struct {
	_ factory.ProductOf[int, Numbered] `factory:"7"`
}

func (GoodNumber) Number() int { return 7 }

type Tagged struct {
	factory.ProductOf[string, Named]
	Scope string `factory:"arg"`
}

type MissingArg struct {
	_ Tagged `factory:"missing"`
}

func (MissingArg) Name() string { return "missing" }
