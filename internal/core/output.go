package core

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"

	"github.com/origadmin/factorygen/internal/config"
	"github.com/origadmin/factorygen/internal/generator"
)

// ResolveOutput finds the import path and name of the package receiving the
// factory unit. The directory does not have to exist yet, but it has to be
// inside a module of the loaded packages.
func ResolveOutput(cfg *config.Config, pkgs []*packages.Package) (generator.Output, error) {
	dir, err := cfg.AbsOutputDir()
	if err != nil {
		return generator.Output{}, err
	}
	out := generator.Output{Dir: dir}

	for _, p := range pkgs {
		if len(p.GoFiles) > 0 && filepath.Dir(p.GoFiles[0]) == dir {
			out.Path, out.Name = p.PkgPath, p.Name
			return out, nil
		}
	}

	for _, mod := range modules(pkgs) {
		rel, err := filepath.Rel(mod.Dir, dir)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		out.Path = mod.Path
		if rel != "." {
			out.Path = path.Join(mod.Path, filepath.ToSlash(rel))
		}
		break
	}
	if out.Path == "" {
		return out, errors.WithHint(
			errors.Newf("output directory %s is not inside a loaded module", dir),
			"set output_dir to a directory of the module being generated")
	}

	switch name, err := packageName(dir); {
	case err != nil:
		return out, err
	case name != "":
		out.Name = name
	case cfg.OutputPackage != "":
		out.Name = cfg.OutputPackage
	default:
		out.Name = identifier(filepath.Base(dir))
	}
	return out, nil
}

// packageName returns the package clause of the first non-test Go file in
// dir, or "" when there is none.
func packageName(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "read output directory %s", dir)
	}
	fset := token.NewFileSet()
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.PackageClauseOnly)
		if err != nil {
			continue
		}
		return f.Name.Name, nil
	}
	return "", nil
}

// identifier turns a directory name into a package name.
func identifier(base string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r == '_', r >= '0' && r <= '9' && b.Len() > 0:
			b.WriteRune(r)
		case r == '-' || r == '.':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 || !token.IsIdentifier(b.String()) || token.IsKeyword(b.String()) {
		return "factories"
	}
	return b.String()
}

// isGenerated reports whether the file at path exists and starts with
// header, which must mark generated code.
func isGenerated(path, header string) bool {
	f, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.PackageClauseOnly|parser.ParseComments)
	if err != nil || !ast.IsGenerated(f) || len(f.Comments) == 0 {
		return false
	}
	first, _, _ := strings.Cut(strings.TrimSpace(header), "\n")
	return strings.HasPrefix(f.Comments[0].Text(), strings.TrimSpace(first))
}
