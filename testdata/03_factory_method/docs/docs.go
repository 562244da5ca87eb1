package docs

import (
	"strings"

	"github.com/origadmin/factorygen/factory"
)

type Key struct {
	Name string
}

type Document interface {
	Format() string
}

type Markdown struct{}

func (Markdown) Format() string { return "markdown" }

type MarkdownCreator struct {
	_ factory.CreatorOf[Key, Document]
}

func (MarkdownCreator) CanCreate(k Key) bool { return strings.HasSuffix(k.Name, ".md") }

func (MarkdownCreator) Create(Key) (Document, error) { return Markdown{}, nil }

type Text struct{}

func (Text) Format() string { return "text" }

type textCreator struct {
	_ factory.CreatorOf[Key, Document]
}

func (*textCreator) CanCreate(k Key) bool { return strings.HasSuffix(k.Name, ".txt") }

func (*textCreator) Create(Key) (Document, error) { return Text{}, nil }
