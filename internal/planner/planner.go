// Package planner turns validated marker usages into the descriptors the
// generator emits.
package planner

import (
	"go/types"
	"sort"
	"strconv"

	"github.com/iancoleman/strcase"

	"github.com/origadmin/factorygen/internal/analyzer"
	"github.com/origadmin/factorygen/internal/logger"
	"github.com/origadmin/factorygen/internal/model"
	"github.com/origadmin/factorygen/internal/rules"
)

// Plan is the outcome of planning one run.
type Plan struct {
	// Factories holds one entry per valid (target, pattern) pair.
	Factories []*model.FactoryInfo
	// Registrations holds one entry per package declaring products or
	// activatable types, ordered by import path.
	Registrations []*model.Registration
	// Rejected counts the groups dropped by validation.
	Rejected int
}

// Planner assembles descriptors for an output package.
type Planner struct {
	ctx     *rules.Context
	rules   []rules.Rule
	outPath string
}

// NewPlanner returns a planner emitting into the package with import path
// outPath.
func NewPlanner(ctx *rules.Context, outPath string) *Planner {
	return &Planner{ctx: ctx, rules: rules.Default, outPath: outPath}
}

// WithRules replaces the rule set.
func (p *Planner) WithRules(rs []rules.Rule) *Planner {
	p.rules = rs
	return p
}

// Plan groups items, validates every group and builds the descriptors of
// the valid ones.
func (p *Planner) Plan(items []model.AttributeItem) *Plan {
	plan := &Plan{}
	regs := newRegistrations(p.ctx.Comp)

	for _, g := range Group(items) {
		if !rules.Validate(p.ctx, g, p.rules) {
			plan.Rejected++
			continue
		}
		if !p.nameable(g) {
			plan.Rejected++
			continue
		}
		products, creators := p.assemble(g)
		if products != nil {
			plan.Factories = append(plan.Factories, products)
			for _, prod := range products.Products {
				regs.product(products, prod)
			}
		}
		if creators != nil {
			plan.Factories = append(plan.Factories, creators)
			for _, c := range creators.Creators {
				if c.IsPrivate {
					regs.activatable(c.Direct)
				}
			}
		}
	}

	p.name(plan.Factories)
	plan.Registrations = regs.list()
	logger.Logger.Debugw("planned factories", "factories", len(plan.Factories),
		"registrations", len(plan.Registrations), "rejected", plan.Rejected)
	return plan
}

// nameable reports whether the output package can refer to the target and
// key types of g.
func (p *Planner) nameable(g *model.Group) bool {
	for _, t := range []types.Type{g.Target, g.Items[0].LabelType} {
		named, ok := analyzer.NamedOf(t)
		if !ok || named.Obj().Pkg() == nil {
			continue
		}
		if analyzer.IsPrivate(named.Obj(), p.outPath) {
			logger.Logger.Warnw("skipping factory: type is not accessible from the output package",
				"type", analyzer.FullName(t), "output", p.outPath)
			return false
		}
	}
	return true
}

func (p *Planner) assemble(g *model.Group) (products, creators *model.FactoryInfo) {
	key := g.Items[0].LabelType
	base := func(pattern model.Pattern) *model.FactoryInfo {
		info := &model.FactoryInfo{
			Pattern:                    pattern,
			TargetName:                 analyzer.TypeName(g.Target),
			TargetInterfaceDeclaration: analyzer.FullName(g.Target),
			KeyTypeDeclaration:         analyzer.FullName(key),
			Target:                     g.Target,
			Key:                        key,
		}
		if named, ok := analyzer.NamedOf(g.Target); ok && named.Obj().Pkg() != nil {
			info.Namespace = named.Obj().Pkg().Path()
		}
		return info
	}

	labels := make(map[string]int)
	seenCreators := make(map[*types.TypeName]bool)
	for _, it := range g.Items {
		switch it.Pattern {
		case model.Product:
			if products == nil {
				products = base(model.Product)
			}
			info := p.product(it)
			label := it.LabelValue.Render(func(p *types.Package) string { return p.Path() })
			if i, dup := labels[label]; dup {
				logger.Logger.Debugw("duplicate key, last one wins", "key", it.LabelValue.String(),
					"previous", products.Products[i].ClassDeclaration, "class", info.ClassDeclaration)
				products.Products[i] = info
				continue
			}
			labels[label] = len(products.Products)
			products.Products = append(products.Products, info)
		case model.Creator:
			if seenCreators[it.ClassType] {
				continue
			}
			seenCreators[it.ClassType] = true
			if creators == nil {
				creators = base(model.Creator)
			}
			creators.Creators = append(creators.Creators, p.creator(it))
		}
	}
	return products, creators
}

func (p *Planner) product(it model.AttributeItem) model.ProductInfo {
	direct := Direct(it.ClassType, it.InterfaceType)
	info := model.ProductInfo{
		Label:            it.LabelValue,
		Class:            it.ClassType,
		ClassDeclaration: model.QualifiedName(it.ClassType),
		IsPrivate:        analyzer.IsPrivate(it.ClassType, p.outPath),
		Direct:           direct,
		Tags:             it.Tags,
		Pos:              it.Pos,
	}
	info.Construction = p.construction(info.IsPrivate, info.ClassDeclaration, direct)
	return info
}

func (p *Planner) creator(it model.AttributeItem) model.CreatorInfo {
	var want types.Type = it.InterfaceType
	if p.ctx.Markers != nil && p.ctx.Markers.CreatorIface != nil {
		inst, err := types.Instantiate(nil, p.ctx.Markers.CreatorIface.Type(), []types.Type{it.LabelType, it.InterfaceType}, false)
		if err == nil {
			want = inst
		}
	}
	direct := Direct(it.ClassType, want)
	info := model.CreatorInfo{
		Class:            it.ClassType,
		ClassDeclaration: model.QualifiedName(it.ClassType),
		IsPrivate:        analyzer.IsPrivate(it.ClassType, p.outPath),
		Direct:           direct,
		Tags:             it.Tags,
		Pos:              it.Pos,
	}
	info.Construction = p.construction(info.IsPrivate, info.ClassDeclaration, direct)
	return info
}

func (p *Planner) construction(private bool, qualified string, direct model.DirectConstruct) model.Construction {
	if private {
		return model.DynamicActivate{QualifiedName: qualified}
	}
	return direct
}

// Direct picks how code in the package of class constructs a value
// assignable to want: a zero argument New<Type> when one fits, otherwise a
// composite literal, addressed when only the pointer satisfies want.
func Direct(class *types.TypeName, want types.Type) model.DirectConstruct {
	dc := model.DirectConstruct{Type: class}
	if ctor := rules.Constructor(class); ctor != nil {
		if returnsErr, ok := usableCtor(ctor, want); ok {
			dc.Ctor = ctor
			dc.CtorReturnsError = returnsErr
			return dc
		}
	}
	dc.Pointer = !assignable(class.Type(), want)
	return dc
}

func usableCtor(ctor *types.Func, want types.Type) (returnsErr, ok bool) {
	sig := ctor.Type().(*types.Signature)
	if sig.TypeParams().Len() > 0 {
		return false, false
	}
	if n := sig.Params().Len(); n > 1 || (n == 1 && !sig.Variadic()) {
		return false, false
	}
	res := sig.Results()
	switch res.Len() {
	case 1:
	case 2:
		if !types.Identical(res.At(1).Type(), types.Universe.Lookup("error").Type()) {
			return false, false
		}
		returnsErr = true
	default:
		return false, false
	}
	return returnsErr, assignable(res.At(0).Type(), want)
}

func assignable(t, want types.Type) bool {
	if iface, ok := want.Underlying().(*types.Interface); ok {
		return types.Implements(t, iface)
	}
	return types.AssignableTo(t, want)
}

// name gives every factory a type name prefix unique in the output package.
// Targets sharing a simple name are prefixed with their package name.
func (p *Planner) name(factories []*model.FactoryInfo) {
	count := make(map[string]map[string]bool)
	for _, f := range factories {
		if count[f.TargetName] == nil {
			count[f.TargetName] = make(map[string]bool)
		}
		count[f.TargetName][f.Namespace] = true
	}
	used := make(map[string]bool)
	for _, f := range factories {
		name := strcase.ToCamel(f.TargetName)
		if len(count[f.TargetName]) > 1 {
			if named, ok := analyzer.NamedOf(f.Target); ok && named.Obj().Pkg() != nil {
				name = strcase.ToCamel(named.Obj().Pkg().Name()) + name
			}
		}
		unique := name
		for i := 2; used[unique+f.Pattern.String()]; i++ {
			unique = name + strconv.Itoa(i)
		}
		used[unique+f.Pattern.String()] = true
		f.Name = unique
	}
}

type registrations struct {
	comp   *analyzer.Compilation
	byPath map[string]*model.Registration
	seen   map[*types.TypeName]bool
}

func newRegistrations(comp *analyzer.Compilation) *registrations {
	return &registrations{
		comp:   comp,
		byPath: make(map[string]*model.Registration),
		seen:   make(map[*types.TypeName]bool),
	}
}

func (r *registrations) get(pkg *types.Package) *model.Registration {
	reg, ok := r.byPath[pkg.Path()]
	if !ok {
		reg = &model.Registration{Package: pkg}
		if sp := r.comp.Package(pkg.Path()); sp != nil {
			reg.Dir = sp.Dir
		}
		r.byPath[pkg.Path()] = reg
	}
	return reg
}

func (r *registrations) product(f *model.FactoryInfo, prod model.ProductInfo) {
	reg := r.get(prod.Class.Pkg())
	reg.Products = append(reg.Products, model.RegisteredProduct{Factory: f, Product: prod})
	if prod.IsPrivate {
		r.activatable(prod.Direct)
	}
}

func (r *registrations) activatable(dc model.DirectConstruct) {
	if r.seen[dc.Type] {
		return
	}
	r.seen[dc.Type] = true
	reg := r.get(dc.Type.Pkg())
	reg.Activatable = append(reg.Activatable, dc)
}

func (r *registrations) list() []*model.Registration {
	out := make([]*model.Registration, 0, len(r.byPath))
	for _, reg := range r.byPath {
		out = append(out, reg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Package.Path() < out[j].Package.Path() })
	return out
}
