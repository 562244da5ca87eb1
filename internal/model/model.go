// Package model holds the descriptors passed from extraction to planning and
// from planning to emission. Values live for one generation run.
package model

import (
	"go/token"
	"go/types"
)

// Pattern is the creational pattern a marker selects.
type Pattern int

const (
	// Product marks a concrete product of a simple factory.
	Product Pattern = iota
	// Creator marks a concrete creator of a factory method.
	Creator
)

func (p Pattern) String() string {
	if p == Creator {
		return "creator"
	}
	return "product"
}

// Literal is a constant rendered as Go source. Named is set when the
// constant has a defined type, in which case the rendering is a conversion
// that needs the type's package imported.
type Literal struct {
	Named *types.TypeName
	Text  string
}

// Render returns the literal as an expression, qualifying Named with q.
func (l Literal) Render(q types.Qualifier) string {
	if l.Named == nil {
		return l.Text
	}
	name := l.Named.Name()
	if pkg := l.Named.Pkg(); pkg != nil && q != nil {
		if prefix := q(pkg); prefix != "" {
			name = prefix + "." + name
		}
	}
	return name + "(" + l.Text + ")"
}

// String renders the literal qualified by package name.
func (l Literal) String() string {
	return l.Render(func(p *types.Package) string { return p.Name() })
}

// Tag is one named auxiliary value of a marker usage.
type Tag struct {
	Name  string
	Value Literal
}

// AttributeItem is one marker usage found on one type.
type AttributeItem struct {
	Pattern Pattern
	// Marker is the marker type the usage resolved to, ProductOf or CreatorOf.
	Marker *types.TypeName
	// Attribute is the declared type of the marker field, either an
	// instantiated marker or a custom marker embedding one.
	Attribute types.Type
	// LabelType is the key type K.
	LabelType types.Type
	// InterfaceType is the target abstraction T.
	InterfaceType types.Type
	// ClassType is the marked type.
	ClassType *types.TypeName
	// LabelValue is the key, valid as a case label. Creators have none.
	LabelValue Literal
	Tags       []Tag
	// Pos is the position of the marker field.
	Pos token.Pos
}

// Construction describes how generated code obtains a value of a marked type.
type Construction interface {
	construction()
}

// DirectConstruct names the type in source.
type DirectConstruct struct {
	Type *types.TypeName
	// Ctor is a zero argument New<Type> function, or nil.
	Ctor             *types.Func
	CtorReturnsError bool
	// Pointer selects &T{} over T{} when Ctor is nil.
	Pointer bool
}

// DynamicActivate looks the type up by qualified name at run time.
type DynamicActivate struct {
	QualifiedName string
}

func (DirectConstruct) construction() {}
func (DynamicActivate) construction() {}

// ProductInfo is one case of a simple factory.
type ProductInfo struct {
	Label Literal
	Class *types.TypeName
	// ClassDeclaration is the qualified name "<pkgpath>.<name>".
	ClassDeclaration string
	IsPrivate        bool
	Construction     Construction
	// Direct is always a DirectConstruct for the class, used by the
	// registration unit that lives next to the type.
	Direct DirectConstruct
	Tags   []Tag
	Pos    token.Pos
}

// CreatorInfo is one creator of a factory method.
type CreatorInfo struct {
	Class            *types.TypeName
	ClassDeclaration string
	IsPrivate        bool
	Construction     Construction
	Direct           DirectConstruct
	Tags             []Tag
	Pos              token.Pos
}

// FactoryInfo is everything emitted for one (target, pattern) pair.
type FactoryInfo struct {
	Pattern Pattern
	// Namespace is the import path of the target's package.
	Namespace  string
	TargetName string
	// TargetInterfaceDeclaration and KeyTypeDeclaration are fully qualified.
	TargetInterfaceDeclaration string
	KeyTypeDeclaration         string
	Target                     types.Type
	Key                        types.Type
	// Name is the prefix of the generated type names, unique in the output
	// package.
	Name     string
	Products []ProductInfo
	Creators []CreatorInfo
}

// Len returns the number of members of f.
func (f *FactoryInfo) Len() int {
	if f.Pattern == Creator {
		return len(f.Creators)
	}
	return len(f.Products)
}

// Registration groups the products one package registers in its init.
type Registration struct {
	Package  *types.Package
	Dir      string
	Products []RegisteredProduct
	// Activatable lists the unexported types other packages activate by name.
	Activatable []DirectConstruct
}

// RegisteredProduct is one MustRegister call.
type RegisteredProduct struct {
	Factory *FactoryInfo
	Product ProductInfo
}

// QualifiedName returns "<pkgpath>.<name>" for obj.
func QualifiedName(obj types.Object) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

// Group is every usage sharing one target abstraction, in discovery order.
type Group struct {
	Target types.Type
	Items  []AttributeItem
}

// Classes returns the distinct marked types of g in discovery order.
func (g *Group) Classes() []*types.TypeName {
	seen := make(map[*types.TypeName]bool)
	var out []*types.TypeName
	for _, it := range g.Items {
		if !seen[it.ClassType] {
			seen[it.ClassType] = true
			out = append(out, it.ClassType)
		}
	}
	return out
}
