package commands

import "github.com/origadmin/factorygen/factory"

type Priority int

const (
	Low Priority = iota
	Normal
	High
)

type Handler interface {
	Run() error
}

// Command is a custom marker: a product marker with a positional argument
// and three properties.
type Command struct {
	factory.ProductOf[string, Handler]
	When        string   `factory:"arg"`
	Shortcut    string
	Description string   `default:"none"`
	Priority    Priority `default:"Normal"`
	internal    int
}

// Menu extends Command.
type Menu struct {
	Command
	Order  int     `factory:"arg"`
	Weight float64 `default:"1.5"`
	Level  uint8
}

type Save struct {
	_ Command `factory:"save,dirty" shortcut:"ctrl+s" priority:"High"`
}

func (Save) Run() error { return nil }

type Quit struct {
	_ Command `factory:"quit,always"`
}

func (Quit) Run() error { return nil }

type Open struct {
	_ Menu `factory:"open,always,3" description:"open a file" level:"3"`
}

func (Open) Run() error { return nil }
