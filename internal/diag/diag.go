// Package diag declares the diagnostics reported while extracting and
// validating factory markers.
package diag

import (
	"fmt"
	"go/token"
	"sort"
	"strings"
)

// Severity of a diagnostic. Every factorygen diagnostic blocks generation.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Descriptor is the static part of a diagnostic.
type Descriptor struct {
	Code     string
	Title    string
	Format   string
	Severity Severity
}

var (
	NoGenericParameters = &Descriptor{
		Code:   "SFG001",
		Title:  "the marked type must not have type parameters",
		Format: "type %s has type parameters, which factories cannot instantiate; remove them",
	}
	ParameterlessConstructor = &Descriptor{
		Code:   "SFG002",
		Title:  "the product must be constructible without arguments",
		Format: "product %s must be constructible without arguments; %s",
	}
	SameKeyType = &Descriptor{
		Code:   "SFG003",
		Title:  "types marked for the same target must use the same key type",
		Format: "target %s is marked with key types %s; use a single key type",
	}
	ImplementTarget = &Descriptor{
		Code:   "SFG004",
		Title:  "the marked type must implement the target declared by the marker",
		Format: "type %s does not implement %s; %s",
	}
	SameModule = &Descriptor{
		Code:   "SFG005",
		Title:  "the marked type must be in the same module as the target",
		Format: "type %s is not in the same module as %s it implements; move it to module %s",
	}
	MalformedMarker = &Descriptor{
		Code:   "SFG006",
		Title:  "the marker usage is malformed",
		Format: "malformed marker on %s: %s; expected %s",
	}
	DuplicateKey = &Descriptor{
		Code:   "SFG007",
		Title:  "the key is already used for the same target",
		Format: "key %s of %s is already used by %s for target %s",
	}
)

// All lists the descriptors in code order.
var All = []*Descriptor{
	NoGenericParameters,
	ParameterlessConstructor,
	SameKeyType,
	ImplementTarget,
	SameModule,
	MalformedMarker,
	DuplicateKey,
}

// Diagnostic is one reported problem at one location.
type Diagnostic struct {
	*Descriptor
	Pos      token.Pos
	Position token.Position
	Message  string
}

// String formats d the way go vet does.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Position, d.Code, d.Message)
}

// Bag collects diagnostics. The zero value is ready to use.
type Bag struct {
	fset  *token.FileSet
	items []Diagnostic
}

// NewBag returns a bag resolving positions with fset.
func NewBag(fset *token.FileSet) *Bag {
	return &Bag{fset: fset}
}

// Report adds a diagnostic for desc at pos.
func (b *Bag) Report(desc *Descriptor, pos token.Pos, args ...any) {
	d := Diagnostic{
		Descriptor: desc,
		Pos:        pos,
		Message:    fmt.Sprintf(desc.Format, args...),
	}
	if b.fset != nil && pos.IsValid() {
		d.Position = b.fset.Position(pos)
	}
	b.items = append(b.items, d)
}

// Merge appends the diagnostics of other.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// Len returns the number of diagnostics.
func (b *Bag) Len() int {
	return len(b.items)
}

// HasErrors reports whether any diagnostic has error severity.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Items returns the diagnostics sorted by position, then code.
func (b *Bag) Items() []Diagnostic {
	items := make([]Diagnostic, len(b.items))
	copy(items, b.items)
	sort.SliceStable(items, func(i, j int) bool {
		pi, pj := items[i].Position, items[j].Position
		if pi.Filename != pj.Filename {
			return pi.Filename < pj.Filename
		}
		if pi.Offset != pj.Offset {
			return pi.Offset < pj.Offset
		}
		return items[i].Code < items[j].Code
	})
	return items
}

// Codes returns the code of every diagnostic, in Items order.
func (b *Bag) Codes() []string {
	items := b.Items()
	codes := make([]string, len(items))
	for i, d := range items {
		codes[i] = d.Code
	}
	return codes
}

// Count returns the number of diagnostics with desc.
func (b *Bag) Count(desc *Descriptor) int {
	n := 0
	for _, d := range b.items {
		if d.Descriptor == desc {
			n++
		}
	}
	return n
}

// String renders all diagnostics, one per line.
func (b *Bag) String() string {
	var sb strings.Builder
	for _, d := range b.Items() {
		sb.WriteString(d.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
