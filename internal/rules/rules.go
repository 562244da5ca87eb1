// Package rules validates groups of marker usages before code is emitted.
package rules

import (
	"go/types"
	"strings"

	"github.com/origadmin/factorygen/internal/analyzer"
	"github.com/origadmin/factorygen/internal/diag"
	"github.com/origadmin/factorygen/internal/logger"
	"github.com/origadmin/factorygen/internal/model"
)

// Context is shared by the rules of one run.
type Context struct {
	Comp             *analyzer.Compilation
	Markers          *analyzer.Markers
	Diags            *diag.Bag
	RejectDuplicates bool
}

// Rule checks one group. It reports a diagnostic for every offending
// location and returns false when the group must not be emitted.
type Rule struct {
	Name  string
	Check func(ctx *Context, g *model.Group) bool
}

// Default is the rule set in enforcement order. Later rules rely on earlier
// ones having passed.
var Default = []Rule{
	{Name: "no-type-parameters", Check: NoGenericParameters},
	{Name: "same-module", Check: SameModule},
	{Name: "parameterless-constructor", Check: ParameterlessConstructor},
	{Name: "same-key-type", Check: SameKeyType},
	{Name: "implements-target", Check: ImplementsTarget},
	{Name: "unique-keys", Check: UniqueKeys},
}

// Validate runs rules over g and stops at the first failing one.
func Validate(ctx *Context, g *model.Group, rules []Rule) bool {
	for _, r := range rules {
		if !r.Check(ctx, g) {
			logger.Logger.Debugw("group rejected", "target", analyzer.FullName(g.Target), "rule", r.Name)
			return false
		}
	}
	return true
}

// NoGenericParameters rejects marked types with type parameters.
func NoGenericParameters(ctx *Context, g *model.Group) bool {
	ok := true
	for _, class := range g.Classes() {
		if analyzer.HasTypeParams(class) {
			ctx.Diags.Report(diag.NoGenericParameters, class.Pos(), analyzer.ShortName(class.Type()))
			ok = false
		}
	}
	return ok
}

// SameModule rejects marked types declared outside the module of the target.
// Targets without a package, such as any, are accepted from every module.
func SameModule(ctx *Context, g *model.Group) bool {
	target, ok := analyzer.NamedOf(g.Target)
	if !ok || target.Obj().Pkg() == nil {
		return true
	}
	targetPkg := target.Obj().Pkg()
	module, _ := ctx.Comp.ModuleOf(targetPkg)
	if module == "" {
		module = targetPkg.Path()
	}

	ok = true
	for _, class := range g.Classes() {
		if !ctx.Comp.SameModule(class.Pkg(), targetPkg) {
			ctx.Diags.Report(diag.SameModule, class.Pos(),
				analyzer.ShortName(class.Type()), analyzer.ShortName(g.Target), module)
			ok = false
		}
	}
	return ok
}

// ParameterlessConstructor rejects products whose New<Type> function
// requires arguments. Creators are exempt.
func ParameterlessConstructor(ctx *Context, g *model.Group) bool {
	ok := true
	seen := make(map[*types.TypeName]bool)
	for _, it := range g.Items {
		if it.Pattern != model.Product || seen[it.ClassType] {
			continue
		}
		seen[it.ClassType] = true
		ctor := Constructor(it.ClassType)
		if ctor == nil {
			continue
		}
		if sig := ctor.Type().(*types.Signature); !callableWithoutArgs(sig) {
			ctx.Diags.Report(diag.ParameterlessConstructor, it.ClassType.Pos(),
				analyzer.ShortName(it.ClassType.Type()), ctor.Name()+" requires arguments")
			ok = false
		}
	}
	return ok
}

// Constructor returns the New<Type> function declared next to obj.
func Constructor(obj *types.TypeName) *types.Func {
	if obj.Pkg() == nil {
		return nil
	}
	name := "New" + strings.ToUpper(obj.Name()[:1]) + obj.Name()[1:]
	if !obj.Exported() {
		name = "new" + strings.ToUpper(obj.Name()[:1]) + obj.Name()[1:]
	}
	fn, _ := obj.Pkg().Scope().Lookup(name).(*types.Func)
	return fn
}

func callableWithoutArgs(sig *types.Signature) bool {
	n := sig.Params().Len()
	return n == 0 || (n == 1 && sig.Variadic())
}

// SameKeyType rejects groups whose usages disagree on the key type, at
// every contributing location.
func SameKeyType(ctx *Context, g *model.Group) bool {
	var keys []types.Type
	for _, it := range g.Items {
		if !containsType(keys, it.LabelType) {
			keys = append(keys, it.LabelType)
		}
	}
	if len(keys) < 2 {
		return true
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = analyzer.ShortName(k)
	}
	list := strings.Join(names, ", ")
	for _, class := range g.Classes() {
		ctx.Diags.Report(diag.SameKeyType, class.Pos(), analyzer.ShortName(g.Target), list)
	}
	return false
}

func containsType(list []types.Type, t types.Type) bool {
	for _, x := range list {
		if types.Identical(x, t) {
			return true
		}
	}
	return false
}

// ImplementsTarget rejects products that do not implement the target and
// creators that do not implement factory.Creator of the group's key and
// target. Only interface targets are supported.
func ImplementsTarget(ctx *Context, g *model.Group) bool {
	target := analyzer.ShortName(g.Target)
	iface, isIface := g.Target.Underlying().(*types.Interface)

	ok := true
	seen := make(map[*types.TypeName]bool)
	for _, it := range g.Items {
		if seen[it.ClassType] {
			continue
		}
		seen[it.ClassType] = true
		class := analyzer.ShortName(it.ClassType.Type())

		if !isIface {
			ctx.Diags.Report(diag.ImplementTarget, it.ClassType.Pos(), class, target,
				"the target must be an interface type")
			ok = false
			continue
		}
		if it.Pattern == model.Product {
			if !analyzer.Implements(it.ClassType.Type(), iface) {
				ctx.Diags.Report(diag.ImplementTarget, it.ClassType.Pos(), class, target,
					"add the methods of "+target)
				ok = false
			}
			continue
		}
		creator, name := creatorInterface(ctx, it)
		if creator == nil || !analyzer.Implements(it.ClassType.Type(), creator) {
			ctx.Diags.Report(diag.ImplementTarget, it.ClassType.Pos(), class, name,
				"creators must implement CanCreate and Create for "+target)
			ok = false
		}
	}
	return ok
}

func creatorInterface(ctx *Context, it model.AttributeItem) (*types.Interface, string) {
	name := "factory.Creator[" + analyzer.ShortName(it.LabelType) + ", " + analyzer.ShortName(it.InterfaceType) + "]"
	if ctx.Markers == nil || ctx.Markers.CreatorIface == nil {
		return nil, name
	}
	inst, err := types.Instantiate(nil, ctx.Markers.CreatorIface.Type(), []types.Type{it.LabelType, it.InterfaceType}, false)
	if err != nil {
		return nil, name
	}
	iface, _ := inst.Underlying().(*types.Interface)
	return iface, name
}

// UniqueKeys rejects products sharing a key when duplicates are rejected.
// Otherwise the last registration wins at run time.
func UniqueKeys(ctx *Context, g *model.Group) bool {
	if !ctx.RejectDuplicates {
		return true
	}
	first := make(map[string]model.AttributeItem)
	ok := true
	for _, it := range g.Items {
		if it.Pattern != model.Product {
			continue
		}
		key := it.LabelValue.Render(func(p *types.Package) string { return p.Path() })
		if prev, dup := first[key]; dup {
			ctx.Diags.Report(diag.DuplicateKey, it.Pos, it.LabelValue.String(),
				analyzer.ShortName(it.ClassType.Type()), analyzer.ShortName(prev.ClassType.Type()),
				analyzer.ShortName(g.Target))
			ok = false
			continue
		}
		first[key] = it
	}
	return ok
}
