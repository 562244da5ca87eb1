package analyzer

import (
	"go/types"
	"strings"
)

// Markers are the marker symbols of the runtime package.
type Markers struct {
	Pkg *types.Package
	// Product and Creator are the generic marker types ProductOf and CreatorOf.
	Product *types.TypeName
	Creator *types.TypeName
	// CreatorIface is the generic interface Creator every creator implements.
	CreatorIface *types.TypeName
}

// FindMarkers looks the marker package up in c. The second result is false
// when no scanned package depends on it, in which case there is nothing to
// generate.
func FindMarkers(c *Compilation, path string) (*Markers, bool) {
	pkg := c.Lookup(path)
	if pkg == nil {
		return nil, false
	}
	m := &Markers{Pkg: pkg}
	m.Product = lookupGeneric(pkg, "ProductOf")
	m.Creator = lookupGeneric(pkg, "CreatorOf")
	m.CreatorIface = lookupGeneric(pkg, "Creator")
	if m.Product == nil && m.Creator == nil {
		return nil, false
	}
	return m, true
}

func lookupGeneric(pkg *types.Package, name string) *types.TypeName {
	tn, ok := pkg.Scope().Lookup(name).(*types.TypeName)
	if !ok {
		return nil
	}
	named, ok := tn.Type().(*types.Named)
	if !ok || named.TypeParams().Len() != 2 {
		return nil
	}
	return tn
}

// IsMarker reports whether t is an instantiation of the generic marker,
// comparing the unbound generic symbol rather than names.
func IsMarker(t types.Type, marker *types.TypeName) bool {
	if marker == nil {
		return false
	}
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}
	return named.Origin().Obj() == marker
}

// MatchMarker walks t and its chain of embedded struct types and returns the
// first instantiated marker found along with the marker symbol it matched.
func MatchMarker(t types.Type, markers ...*types.TypeName) (*types.Named, *types.TypeName) {
	return matchMarker(t, markers, make(map[types.Type]bool))
}

func matchMarker(t types.Type, markers []*types.TypeName, seen map[types.Type]bool) (*types.Named, *types.TypeName) {
	t = types.Unalias(t)
	if seen[t] {
		return nil, nil
	}
	seen[t] = true

	for _, m := range markers {
		if IsMarker(t, m) {
			return t.(*types.Named), m
		}
	}
	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return nil, nil
	}
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}
		if named, m := matchMarker(f.Type(), markers, seen); named != nil {
			return named, m
		}
	}
	return nil, nil
}

// FullName renders t with full import paths.
func FullName(t types.Type) string {
	return types.TypeString(t, func(p *types.Package) string { return p.Path() })
}

// ShortName renders t qualified by package names.
func ShortName(t types.Type) string {
	return types.TypeString(t, func(p *types.Package) string { return p.Name() })
}

// HasTypeParams reports whether the named type declared by obj is generic.
func HasTypeParams(obj *types.TypeName) bool {
	named, ok := obj.Type().(*types.Named)
	return ok && named.TypeParams().Len() > 0
}

// IsPrivate reports whether generated code in the package at outPath
// cannot name obj.
func IsPrivate(obj *types.TypeName, outPath string) bool {
	if obj.Exported() {
		return false
	}
	return obj.Pkg() == nil || obj.Pkg().Path() != outPath
}

// NamedOf returns the named type behind t, looking through aliases and
// one level of pointer.
func NamedOf(t types.Type) (*types.Named, bool) {
	t = types.Unalias(t)
	if p, ok := t.(*types.Pointer); ok {
		t = types.Unalias(p.Elem())
	}
	n, ok := t.(*types.Named)
	return n, ok
}

// TypeName returns the simple name of t for use in identifiers.
func TypeName(t types.Type) string {
	if n, ok := NamedOf(t); ok {
		return n.Obj().Name()
	}
	s := ShortName(t)
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// Implements reports whether t or *t implements the interface iface.
func Implements(t types.Type, iface *types.Interface) bool {
	if types.Implements(t, iface) {
		return true
	}
	if _, isPtr := t.Underlying().(*types.Pointer); isPtr {
		return false
	}
	if types.IsInterface(t) {
		return false
	}
	return types.Implements(types.NewPointer(t), iface)
}
