package analyzer

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"

	"github.com/origadmin/factorygen/internal/config"
	"github.com/origadmin/factorygen/internal/logger"
)

// LoadMode is the information factorygen needs from go/packages.
const LoadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedModule |
	packages.NeedTypes | packages.NeedTypesInfo | packages.NeedImports | packages.NeedDeps

// Load loads and type checks the packages matched by cfg.Patterns.
// Type errors are logged and tolerated: stale generated files are
// overwritten by the run anyway.
func Load(ctx context.Context, cfg *config.Config) (*Compilation, error) {
	pkgs, err := LoadPackages(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return FromPackages(pkgs), nil
}

// LoadPackages is Load without building the compilation.
func LoadPackages(ctx context.Context, cfg *config.Config) ([]*packages.Package, error) {
	loadCfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     cfg.Dir,
		Tests:   false,
	}
	if len(cfg.BuildTags) > 0 {
		loadCfg.BuildFlags = []string{"-tags=" + strings.Join(cfg.BuildTags, ",")}
	}

	logger.Logger.Debugw("loading packages", "dir", cfg.Dir, "patterns", cfg.Patterns)
	pkgs, err := packages.Load(loadCfg, cfg.Patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "load packages %v in %s", cfg.Patterns, cfg.Dir)
	}
	if len(pkgs) == 0 {
		return nil, errors.Newf("no packages match %v in %s", cfg.Patterns, cfg.Dir)
	}
	for _, pkg := range pkgs {
		for _, pkgErr := range pkg.Errors {
			logger.Logger.Warnw("package contains errors", "pkg", pkg.PkgPath, "error", pkgErr.Msg, "pos", pkgErr.Pos)
		}
	}
	return pkgs, nil
}
