package generator

import (
	"fmt"
	"go/types"
	"sort"
)

type importSpec struct {
	name  string
	alias string
}

// ImportManager collects the imports of one generated file and hands out
// the identifier each package is referred to by.
type ImportManager struct {
	self    string
	imports map[string]importSpec
	taken   map[string]string
}

// NewImportManager returns an import manager for a file of the package with
// import path self.
func NewImportManager(self string) *ImportManager {
	return &ImportManager{
		self:    self,
		imports: make(map[string]importSpec),
		taken:   make(map[string]string),
	}
}

// Add imports pkg and returns its qualifier, empty for the file's own
// package.
func (im *ImportManager) Add(pkg *types.Package) string {
	if pkg == nil {
		return ""
	}
	return im.AddPath(pkg.Path(), pkg.Name())
}

// AddPath imports the package at importPath declaring package name and
// returns its qualifier. A name already used by another import gets a
// numbered alias.
func (im *ImportManager) AddPath(importPath, name string) string {
	if importPath == im.self {
		return ""
	}
	if spec, ok := im.imports[importPath]; ok {
		return spec.alias
	}

	alias := name
	for i := 1; ; i++ {
		if _, conflict := im.taken[alias]; !conflict {
			break
		}
		alias = fmt.Sprintf("%s%d", name, i)
	}
	im.imports[importPath] = importSpec{name: name, alias: alias}
	im.taken[alias] = importPath
	return alias
}

// Qualifier returns a types.Qualifier that imports every package it is
// asked about.
func (im *ImportManager) Qualifier() types.Qualifier {
	return im.Add
}

// Alias returns the qualifier of an imported path.
func (im *ImportManager) Alias(importPath string) (string, bool) {
	spec, ok := im.imports[importPath]
	return spec.alias, ok
}

// Paths returns the imported paths sorted.
func (im *ImportManager) Paths() []string {
	paths := make([]string, 0, len(im.imports))
	for p := range im.imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of imports.
func (im *ImportManager) Len() int {
	return len(im.imports)
}

func (im *ImportManager) write(w *writer) {
	paths := im.Paths()
	if len(paths) == 0 {
		return
	}
	spec := func(p string) string {
		s := im.imports[p]
		if s.alias != s.name {
			return fmt.Sprintf("%s %q", s.alias, p)
		}
		return fmt.Sprintf("%q", p)
	}
	if len(paths) == 1 {
		w.line("import %s", spec(paths[0]))
		w.blank()
		return
	}
	w.line("import (")
	w.depth++
	for _, p := range paths {
		w.line("%s", spec(p))
	}
	w.depth--
	w.line(")")
	w.blank()
}
