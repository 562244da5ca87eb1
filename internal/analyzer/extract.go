package analyzer

import (
	"fmt"
	"go/types"
	"reflect"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/origadmin/factorygen/internal/diag"
	"github.com/origadmin/factorygen/internal/logger"
	"github.com/origadmin/factorygen/internal/model"
)

// Struct tag keys understood on marker fields and custom marker fields.
const (
	TagKey     = "factory"
	TagDefault = "default"
	argMarker  = "arg"
	skipMarker = "-"
)

// Extractor finds marker usages in the scanned packages of a compilation.
type Extractor struct {
	comp    *Compilation
	markers *Markers
	diags   *diag.Bag
}

// NewExtractor returns an extractor reporting malformed usages to diags.
func NewExtractor(comp *Compilation, markers *Markers, diags *diag.Bag) *Extractor {
	return &Extractor{comp: comp, markers: markers, diags: diags}
}

// Extract returns every well formed marker usage, packages ordered by
// import path and types by source position.
func (e *Extractor) Extract() []model.AttributeItem {
	var items []model.AttributeItem
	for _, pkg := range e.comp.Packages {
		for _, obj := range e.structTypes(pkg) {
			items = append(items, e.FromType(obj)...)
		}
	}
	logger.Logger.Debugw("extracted marker usages", "count", len(items))
	return items
}

func (e *Extractor) structTypes(pkg *Package) []*types.TypeName {
	scope := pkg.Types.Scope()
	var objs []*types.TypeName
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}
		if _, ok := tn.Type().Underlying().(*types.Struct); !ok {
			continue
		}
		objs = append(objs, tn)
	}
	sort.Slice(objs, func(i, j int) bool {
		pi, pj := e.comp.Position(objs[i].Pos()), e.comp.Position(objs[j].Pos())
		if pi.Filename != pj.Filename {
			return pi.Filename < pj.Filename
		}
		return pi.Offset < pj.Offset
	})
	return objs
}

// FromType returns the marker usages declared on obj. Embedded marker
// fields declare custom markers and are not usages.
func (e *Extractor) FromType(obj *types.TypeName) []model.AttributeItem {
	st, ok := obj.Type().Underlying().(*types.Struct)
	if !ok {
		return nil
	}
	var items []model.AttributeItem
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		if field.Embedded() {
			continue
		}
		named, marker := MatchMarker(field.Type(), e.markers.Product, e.markers.Creator)
		if named == nil {
			continue
		}
		item, ok := e.fromField(obj, field, st.Tag(i), named, marker)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items
}

type param struct {
	field *types.Var
	tag   reflect.StructTag
	name  string
}

func (e *Extractor) fromField(obj *types.TypeName, field *types.Var, tag string, named *types.Named, marker *types.TypeName) (model.AttributeItem, bool) {
	args := named.TypeArgs()
	item := model.AttributeItem{
		Pattern:       model.Product,
		Marker:        marker,
		Attribute:     field.Type(),
		LabelType:     args.At(0),
		InterfaceType: args.At(1),
		ClassType:     obj,
		Pos:           field.Pos(),
	}
	if marker == e.markers.Creator {
		item.Pattern = model.Creator
	}

	positional, properties := e.params(field.Type())
	usage := reflect.StructTag(tag)
	shape := expectedShape(item.Pattern, positional)
	malformed := func(reason string) (model.AttributeItem, bool) {
		e.diags.Report(diag.MalformedMarker, field.Pos(), ShortName(obj.Type()), reason, shape)
		return model.AttributeItem{}, false
	}

	value, found := usage.Lookup(TagKey)
	var argValues []string
	if item.Pattern == model.Product {
		if !found {
			return malformed("missing key")
		}
		parts := strings.Split(value, ",")
		argValues = parts[1:]
		if _, ok := item.LabelType.Underlying().(*types.Basic); !ok {
			return malformed("key type " + ShortName(item.LabelType) + " has no basic underlying type")
		}
		lit, err := ConstLiteral(e.comp.Fset, scopeOf(item.LabelType, obj.Pkg()), item.LabelType, parts[0])
		if err != nil {
			return malformed("invalid key: " + err.Error())
		}
		item.LabelValue = lit
	} else if found && value != "" {
		argValues = strings.Split(value, ",")
	}

	if len(argValues) != len(positional) {
		return malformed(fmt.Sprintf("%d positional arguments declared, %d given", len(positional), len(argValues)))
	}
	for i, p := range positional {
		lit, err := ConstLiteral(e.comp.Fset, scopeOf(p.field.Type(), p.field.Pkg()), p.field.Type(), argValues[i])
		if err != nil {
			return malformed("argument " + p.name + ": " + err.Error())
		}
		item.Tags = append(item.Tags, model.Tag{Name: p.name, Value: lit})
	}
	for _, p := range properties {
		lit, err := e.propertyValue(usage, p)
		if err != nil {
			return malformed("property " + p.name + ": " + err.Error())
		}
		item.Tags = append(item.Tags, model.Tag{Name: p.name, Value: lit})
	}
	return item, true
}

// propertyValue resolves a property by priority: the value on the usage,
// then the default declared on the property, then the zero value.
func (e *Extractor) propertyValue(usage reflect.StructTag, p param) (model.Literal, error) {
	t := p.field.Type()
	scope := scopeOf(t, p.field.Pkg())
	if v, ok := usage.Lookup(p.name); ok {
		return ConstLiteral(e.comp.Fset, scope, t, v)
	}
	if v, ok := p.tag.Lookup(TagDefault); ok {
		return ConstLiteral(e.comp.Fset, scope, t, v)
	}
	return ZeroLiteral(t), nil
}

// params collects the exported fields of a custom marker in declaration
// order, expanding embedded structs in place.
func (e *Extractor) params(t types.Type) (positional, properties []param) {
	seen := make(map[types.Type]bool)
	var walk func(types.Type)
	walk = func(t types.Type) {
		t = types.Unalias(t)
		if seen[t] || IsMarker(t, e.markers.Product) || IsMarker(t, e.markers.Creator) {
			return
		}
		seen[t] = true
		st, ok := t.Underlying().(*types.Struct)
		if !ok {
			return
		}
		for i := 0; i < st.NumFields(); i++ {
			f := st.Field(i)
			if f.Embedded() {
				walk(f.Type())
				continue
			}
			if !f.Exported() {
				continue
			}
			tag := reflect.StructTag(st.Tag(i))
			p := param{field: f, tag: tag, name: strcase.ToLowerCamel(f.Name())}
			switch tag.Get(TagKey) {
			case argMarker:
				positional = append(positional, p)
			case skipMarker:
			default:
				properties = append(properties, p)
			}
		}
	}
	walk(t)
	return positional, properties
}

func scopeOf(t types.Type, fallback *types.Package) *types.Package {
	if n, ok := types.Unalias(t).(*types.Named); ok && n.Obj().Pkg() != nil {
		return n.Obj().Pkg()
	}
	return fallback
}

func expectedShape(p model.Pattern, positional []param) string {
	var parts []string
	if p == model.Product {
		parts = append(parts, "<key>")
	}
	for _, a := range positional {
		parts = append(parts, "<"+a.name+">")
	}
	return TagKey + `:"` + strings.Join(parts, ",") + `"`
}
