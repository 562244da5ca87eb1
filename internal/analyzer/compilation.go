// Package analyzer loads the packages of a run and extracts the factory
// markers declared in them.
package analyzer

import (
	"go/ast"
	"go/token"
	"go/types"
	"sort"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/packages"
)

// Package is one scanned package.
type Package struct {
	Path   string
	Name   string
	Dir    string
	Module string
	Types  *types.Package
	Info   *types.Info
	Files  []*ast.File
}

// Compilation is the type checked view of a run: the scanned packages and
// every package they depend on.
type Compilation struct {
	Fset     *token.FileSet
	Packages []*Package

	all     map[string]*types.Package
	modules map[string]string
}

func newCompilation(fset *token.FileSet) *Compilation {
	return &Compilation{
		Fset:    fset,
		all:     make(map[string]*types.Package),
		modules: make(map[string]string),
	}
}

// FromPackages builds a compilation from loaded packages. The roots are
// scanned, their dependencies are only indexed.
func FromPackages(roots []*packages.Package) *Compilation {
	var fset *token.FileSet
	for _, p := range roots {
		if p.Fset != nil {
			fset = p.Fset
			break
		}
	}
	if fset == nil {
		fset = token.NewFileSet()
	}
	c := newCompilation(fset)

	packages.Visit(roots, nil, func(p *packages.Package) {
		if p.Types != nil {
			c.all[p.PkgPath] = p.Types
		}
		if p.Module != nil {
			c.modules[p.PkgPath] = p.Module.Path
		}
	})

	for _, p := range roots {
		if p.Types == nil || p.TypesInfo == nil {
			continue
		}
		pkg := &Package{
			Path:   p.PkgPath,
			Name:   p.Name,
			Types:  p.Types,
			Info:   p.TypesInfo,
			Files:  p.Syntax,
			Module: c.modules[p.PkgPath],
		}
		if len(p.GoFiles) > 0 {
			pkg.Dir = dirOf(p.GoFiles[0])
		}
		c.Packages = append(c.Packages, pkg)
	}
	c.sort()
	return c
}

// FromPass builds a compilation holding the single package of an analysis
// pass. Module membership falls back to import path prefixes.
func FromPass(pass *analysis.Pass) *Compilation {
	c := newCompilation(pass.Fset)
	var visit func(p *types.Package)
	visit = func(p *types.Package) {
		if _, ok := c.all[p.Path()]; ok {
			return
		}
		c.all[p.Path()] = p
		for _, imp := range p.Imports() {
			visit(imp)
		}
	}
	visit(pass.Pkg)

	pkg := &Package{
		Path:  pass.Pkg.Path(),
		Name:  pass.Pkg.Name(),
		Types: pass.Pkg,
		Info:  pass.TypesInfo,
		Files: pass.Files,
	}
	if pass.Module != nil {
		pkg.Module = pass.Module.Path
		c.modules[pkg.Path] = pass.Module.Path
	}
	if len(pass.Files) > 0 {
		pkg.Dir = dirOf(pass.Fset.File(pass.Files[0].Pos()).Name())
	}
	c.Packages = []*Package{pkg}
	return c
}

func (c *Compilation) sort() {
	sort.Slice(c.Packages, func(i, j int) bool {
		return c.Packages[i].Path < c.Packages[j].Path
	})
}

// Lookup returns the package with the import path, scanned or not.
func (c *Compilation) Lookup(path string) *types.Package {
	return c.all[path]
}

// Package returns the scanned package with the import path.
func (c *Compilation) Package(path string) *Package {
	for _, p := range c.Packages {
		if p.Path == path {
			return p
		}
	}
	return nil
}

// ModuleOf returns the module path of pkg. Packages without module
// information are matched against the known modules by path prefix.
func (c *Compilation) ModuleOf(pkg *types.Package) (string, bool) {
	if pkg == nil {
		return "", false
	}
	if m, ok := c.modules[pkg.Path()]; ok {
		return m, true
	}
	best := ""
	for _, m := range c.modules {
		if (pkg.Path() == m || strings.HasPrefix(pkg.Path(), m+"/")) && len(m) > len(best) {
			best = m
		}
	}
	return best, best != ""
}

// SameModule reports whether a and b belong to the same module. A package
// with no known module is only in the same module as itself.
func (c *Compilation) SameModule(a, b *types.Package) bool {
	if a == b {
		return true
	}
	ma, oka := c.ModuleOf(a)
	mb, okb := c.ModuleOf(b)
	return oka && okb && ma == mb
}

// Position resolves pos.
func (c *Compilation) Position(pos token.Pos) token.Position {
	return c.Fset.Position(pos)
}

func dirOf(file string) string {
	if i := strings.LastIndexAny(file, `/\`); i >= 0 {
		return file[:i]
	}
	return "."
}
