// Package generator renders planned factories as Go source files.
package generator

import (
	"go/format"
	"go/types"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/origadmin/factorygen/internal/config"
	"github.com/origadmin/factorygen/internal/logger"
	"github.com/origadmin/factorygen/internal/model"
	"github.com/origadmin/factorygen/internal/planner"
)

// Unit is the kind of a generated file.
type Unit int

const (
	// FactoryUnit holds the factories and creator lists of a run.
	FactoryUnit Unit = iota
	// RegisterUnit registers the products of one package.
	RegisterUnit
)

func (u Unit) String() string {
	if u == RegisterUnit {
		return "register"
	}
	return "factory"
}

// Output identifies the package receiving the factory unit.
type Output struct {
	Path string
	Name string
	Dir  string
}

// File is one generated source file.
type File struct {
	Path    string
	Package string
	Unit    Unit
	Content []byte
}

// Generator renders plans. runtime is the package declaring the marker and
// registry API that generated code calls.
type Generator struct {
	cfg     *config.Config
	runtime *types.Package
	out     Output
}

// New returns a generator writing the factory unit into out.
func New(cfg *config.Config, runtime *types.Package, out Output) *Generator {
	return &Generator{cfg: cfg, runtime: runtime, out: out}
}

// Generate renders the factory unit, when there is at least one factory,
// and one registration unit per registration.
func (g *Generator) Generate(plan *planner.Plan) ([]File, error) {
	var files []File
	if len(plan.Factories) > 0 {
		f, err := g.Factories(plan.Factories)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	for _, reg := range plan.Registrations {
		if len(reg.Products) == 0 && len(reg.Activatable) == 0 {
			continue
		}
		f, err := g.Registration(reg)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	logger.Logger.Debugw("generated files", "count", len(files))
	return files, nil
}

// Factories renders the factory unit.
func (g *Generator) Factories(factories []*model.FactoryInfo) (File, error) {
	im := NewImportManager(g.out.Path)
	var body writer
	var methods []*model.FactoryInfo
	for _, f := range factories {
		switch f.Pattern {
		case model.Product:
			g.writeSimple(&body, im, f)
		case model.Creator:
			g.writeMethod(&body, im, f)
			methods = append(methods, f)
		}
	}
	g.writeProvide(&body, im, methods)

	path := filepath.Join(g.out.Dir, g.cfg.Output)
	src, err := g.source(path, g.out.Name, im, &body)
	if err != nil {
		return File{}, err
	}
	return File{Path: path, Package: g.out.Path, Unit: FactoryUnit, Content: src}, nil
}

// Registration renders the registration unit of one product package.
func (g *Generator) Registration(reg *model.Registration) (File, error) {
	if reg.Dir == "" {
		return File{}, errors.Newf("no directory known for package %s", reg.Package.Path())
	}
	im := NewImportManager(reg.Package.Path())
	var body writer
	g.writeRegistration(&body, im, reg)

	path := filepath.Join(reg.Dir, g.cfg.RegisterOutput)
	src, err := g.source(path, reg.Package.Name(), im, &body)
	if err != nil {
		return File{}, err
	}
	return File{Path: path, Package: reg.Package.Path(), Unit: RegisterUnit, Content: src}, nil
}

func (g *Generator) source(path, pkgName string, im *ImportManager, body *writer) ([]byte, error) {
	var w writer
	for _, line := range strings.Split(strings.TrimSpace(g.cfg.Header), "\n") {
		w.comment("%s", strings.TrimSpace(line))
	}
	w.blank()
	w.line("package %s", pkgName)
	w.blank()
	im.write(&w)
	w.buf.Write(body.bytes())

	src, err := format.Source(w.bytes())
	if err != nil {
		logger.Logger.Debugw("unformatted source", "file", path, "source", string(w.bytes()))
		return nil, errors.Wrapf(err, "format %s", path)
	}
	return src, nil
}
