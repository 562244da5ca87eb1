// Package core runs the generation pipeline: load, extract, validate, plan
// and render.
package core

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"

	"github.com/origadmin/factorygen/internal/analyzer"
	"github.com/origadmin/factorygen/internal/config"
	"github.com/origadmin/factorygen/internal/diag"
	"github.com/origadmin/factorygen/internal/generator"
	"github.com/origadmin/factorygen/internal/logger"
	"github.com/origadmin/factorygen/internal/planner"
	"github.com/origadmin/factorygen/internal/rules"
)

// ErrDiagnostics is returned by strict runs that reported diagnostics.
var ErrDiagnostics = errors.New("factorygen: diagnostics reported")

// Result is the outcome of one run. Nothing is written until Write.
type Result struct {
	Config      *config.Config
	Output      generator.Output
	Plan        *planner.Plan
	Diagnostics *diag.Bag
	Files       []generator.File
	// Dirs are the directories of the scanned packages.
	Dirs []string
	// Removed lists generated files that the run no longer produces.
	Removed []string
}

// Run generates the factories for cfg. A run whose packages do not import
// the marker package produces no files. cfg is not modified; the settings
// in effect after in-source directives are in Result.Config.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	log := logger.Named("core")

	pkgs, err := analyzer.LoadPackages(ctx, cfg)
	if err != nil {
		return nil, err
	}
	cfg, err = config.NewParser(cfg.Clone()).ParsePackages(pkgs)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	comp := analyzer.FromPackages(pkgs)
	res := &Result{Config: cfg, Diagnostics: diag.NewBag(comp.Fset), Plan: &planner.Plan{}}
	for _, pkg := range comp.Packages {
		if pkg.Dir != "" {
			res.Dirs = append(res.Dirs, pkg.Dir)
		}
	}

	markers, ok := analyzer.FindMarkers(comp, cfg.Markers)
	if !ok {
		log.Infow("marker package not imported, nothing to generate", "markers", cfg.Markers)
		return res, nil
	}

	out, err := ResolveOutput(cfg, pkgs)
	if err != nil {
		return nil, err
	}
	res.Output = out
	log.Debugw("output package", "path", out.Path, "name", out.Name, "dir", out.Dir)

	items := analyzer.NewExtractor(comp, markers, res.Diagnostics).Extract()
	rctx := &rules.Context{
		Comp:             comp,
		Markers:          markers,
		Diags:            res.Diagnostics,
		RejectDuplicates: cfg.RejectDuplicates(),
	}
	res.Plan = planner.NewPlanner(rctx, out.Path).Plan(items)
	if cfg.Strict && res.Diagnostics.Len() > 0 {
		return res, errors.Wrapf(ErrDiagnostics, "%d diagnostics in strict mode", res.Diagnostics.Len())
	}

	res.Files, err = generator.New(cfg, markers.Pkg, out).Generate(res.Plan)
	if err != nil {
		return nil, err
	}
	res.Removed = staleFiles(cfg, comp, out, res.Files)

	log.Infow("generation planned", "factories", len(res.Plan.Factories), "files", len(res.Files),
		"removed", len(res.Removed), "diagnostics", res.Diagnostics.Len())
	return res, nil
}

// staleFiles returns the generated files in scanned packages that the
// current run does not produce.
func staleFiles(cfg *config.Config, comp *analyzer.Compilation, out generator.Output, files []generator.File) []string {
	produced := make(map[string]bool, len(files))
	for _, f := range files {
		produced[f.Path] = true
	}
	candidates := []string{filepath.Join(out.Dir, cfg.Output)}
	for _, pkg := range comp.Packages {
		if pkg.Dir != "" {
			candidates = append(candidates, filepath.Join(pkg.Dir, cfg.RegisterOutput))
		}
	}
	var stale []string
	seen := make(map[string]bool)
	for _, path := range candidates {
		if produced[path] || seen[path] {
			continue
		}
		seen[path] = true
		if isGenerated(path, cfg.Header) {
			stale = append(stale, path)
		}
	}
	return stale
}

// modules returns the modules of the loaded packages.
func modules(pkgs []*packages.Package) []*packages.Module {
	var mods []*packages.Module
	seen := make(map[string]bool)
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		if p.Module == nil || p.Module.Dir == "" || seen[p.Module.Dir] {
			return
		}
		seen[p.Module.Dir] = true
		mods = append(mods, p.Module)
	})
	return mods
}
