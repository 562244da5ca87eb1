package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"github.com/origadmin/factorygen/internal/config"
	"github.com/origadmin/factorygen/internal/diag"
	"github.com/origadmin/factorygen/internal/generator"
	"github.com/origadmin/factorygen/internal/testutil"
)

func run(t *testing.T, name string, mutate ...func(*config.Config)) *Result {
	t.Helper()
	cfg := testutil.Config(t, name)
	for _, m := range mutate {
		m(cfg)
	}
	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	return res
}

// typeCheck loads the fixture with the generated files overlaid and fails on
// any package error.
func typeCheck(t *testing.T, res *Result) {
	t.Helper()
	overlay := make(map[string][]byte)
	for _, f := range res.Files {
		overlay[f.Path] = f.Content
	}
	pkgs, err := packages.Load(&packages.Config{
		Mode:    packages.NeedName | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
		Dir:     res.Config.Dir,
		Overlay: overlay,
	}, res.Config.Patterns...)
	require.NoError(t, err)
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			t.Errorf("%s: %s", p.PkgPath, e)
		}
	})
}

func TestRun_Fixtures(t *testing.T) {
	tests := []struct {
		name      string
		factories int
		files     int
	}{
		{name: "01_simple_factory", factories: 1, files: 2},
		{name: "02_enum_keys", factories: 3, files: 2},
		{name: "03_factory_method", factories: 1, files: 2},
		{name: "04_custom_markers", factories: 1, files: 2},
		{name: "05_duplicates", factories: 1, files: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.name)
			assert.Zero(t, res.Diagnostics.Len(), res.Diagnostics.String())
			assert.Len(t, res.Plan.Factories, tt.factories)
			assert.Len(t, res.Files, tt.files)
			assert.Equal(t, "gen", res.Output.Name)
			assert.Equal(t, "github.com/origadmin/factorygen/testdata/"+tt.name+"/gen", res.Output.Path)
			typeCheck(t, res)
		})
	}
}

func TestRun_Diagnostics(t *testing.T) {
	res := run(t, "06_diagnostics")
	assert.Equal(t, 6, res.Plan.Rejected)
	for _, d := range []*diag.Descriptor{
		diag.NoGenericParameters, diag.ParameterlessConstructor, diag.SameKeyType,
		diag.ImplementTarget, diag.MalformedMarker,
	} {
		assert.NotZero(t, res.Diagnostics.Count(d), "%s missing from\n%s", d.Code, res.Diagnostics.String())
	}
	require.Len(t, res.Plan.Factories, 1, "the valid group is still generated")
	typeCheck(t, res)
}

func TestRun_Strict(t *testing.T) {
	cfg := testutil.Config(t, "06_diagnostics")
	cfg.Strict = true
	res, err := Run(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDiagnostics))
	require.NotNil(t, res)
	assert.Empty(t, res.Files)
	assert.True(t, res.Diagnostics.HasErrors())
}

func TestRun_RejectDuplicates(t *testing.T) {
	res := run(t, "05_duplicates", func(c *config.Config) { c.Duplicates = config.DuplicatesReject })
	assert.Equal(t, 1, res.Diagnostics.Count(diag.DuplicateKey))
	assert.Empty(t, res.Files)
}

func TestRun_NoMarkerPackage(t *testing.T) {
	res := run(t, "01_simple_factory", func(c *config.Config) { c.Markers = "example.com/no/markers" })
	assert.Empty(t, res.Files)
	assert.Empty(t, res.Plan.Factories)
	assert.Zero(t, res.Diagnostics.Len())
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := testutil.Config(t, "01_simple_factory")
	cfg.Duplicates = "ignore"
	_, err := Run(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicates must be one of")
}

func TestRun_DirectivesApplyPerRun(t *testing.T) {
	name := testutil.Scratch(t, "05_duplicates")
	doc := filepath.Join(testutil.FixtureDir(t, name), "gen", "doc.go")
	require.NoError(t, os.WriteFile(doc, []byte("//go:factorygen:duplicates=reject\npackage gen\n"), 0o644))

	cfg := testutil.Config(t, name)
	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, config.DuplicatesReject, res.Config.Duplicates)
	assert.Equal(t, 1, res.Diagnostics.Count(diag.DuplicateKey))
	assert.Empty(t, res.Files)
	assert.Equal(t, config.DuplicatesReplace, cfg.Duplicates, "the caller's config is left alone")

	require.NoError(t, os.WriteFile(doc, []byte("package gen\n"), 0o644))
	res, err = Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, config.DuplicatesReplace, res.Config.Duplicates)
	assert.Zero(t, res.Diagnostics.Len(), res.Diagnostics.String())
	assert.Len(t, res.Files, 2)
}

func TestRun_Idempotent(t *testing.T) {
	first := run(t, "04_custom_markers")
	second := run(t, "04_custom_markers")
	require.Len(t, second.Files, len(first.Files))
	for i := range first.Files {
		assert.Equal(t, first.Files[i].Content, second.Files[i].Content)
	}
}

func TestResult_Write(t *testing.T) {
	res := run(t, "01_simple_factory")
	dir := t.TempDir()
	for i := range res.Files {
		res.Files[i].Path = filepath.Join(dir, res.Files[i].Unit.String(), filepath.Base(res.Files[i].Path))
	}
	stalePath := filepath.Join(dir, "old_gen.go")
	require.NoError(t, os.WriteFile(stalePath, []byte("// "+config.DefaultHeader+"\n\npackage old\n"), 0o644))
	res.Removed = []string{stalePath}

	changed, err := res.Write()
	require.NoError(t, err)
	assert.Len(t, changed, 3)
	assert.NoFileExists(t, stalePath)
	for _, f := range res.Files {
		content, err := os.ReadFile(f.Path)
		require.NoError(t, err)
		assert.Equal(t, f.Content, content)
	}

	res.Removed = nil
	stale, err := res.Stale()
	require.NoError(t, err)
	assert.Empty(t, stale, "a second write changes nothing")

	require.NoError(t, os.WriteFile(res.Files[0].Path, []byte("package gen\n"), 0o644))
	stale, err = res.Stale()
	require.NoError(t, err)
	assert.Equal(t, []string{res.Files[0].Path}, stale)
}

func TestResolveOutput(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "pkg", "existing")
	require.NoError(t, os.MkdirAll(existing, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(existing, "doc.go"), []byte("package named\n"), 0o644))

	pkgs := []*packages.Package{{
		PkgPath: "example.com/m/shapes",
		Name:    "shapes",
		GoFiles: []string{filepath.Join(root, "shapes", "shapes.go")},
		Module:  &packages.Module{Path: "example.com/m", Dir: root},
	}}

	tests := []struct {
		name      string
		outputDir string
		outputPkg string
		want      generator.Output
		wantErr   bool
	}{
		{
			name:      "scanned package",
			outputDir: "shapes",
			want:      generator.Output{Path: "example.com/m/shapes", Name: "shapes"},
		},
		{
			name:      "new directory",
			outputDir: "internal/shape-factories",
			want:      generator.Output{Path: "example.com/m/internal/shape-factories", Name: "shape_factories"},
		},
		{
			name:      "explicit package name",
			outputDir: "internal/factories",
			outputPkg: "fac",
			want:      generator.Output{Path: "example.com/m/internal/factories", Name: "fac"},
		},
		{
			name:      "existing unscanned package",
			outputDir: "pkg/existing",
			outputPkg: "ignored",
			want:      generator.Output{Path: "example.com/m/pkg/existing", Name: "named"},
		},
		{
			name:      "module root",
			outputDir: ".",
			want:      generator.Output{Path: "example.com/m", Name: identifier(filepath.Base(root))},
		},
		{
			name:      "outside module",
			outputDir: filepath.Join(filepath.Dir(root), "elsewhere"),
			wantErr:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewConfig()
			cfg.Dir = root
			cfg.OutputDir = tt.outputDir
			cfg.OutputPackage = tt.outputPkg
			got, err := ResolveOutput(cfg, pkgs)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Path, got.Path)
			assert.Equal(t, tt.want.Name, got.Name)
			assert.True(t, filepath.IsAbs(got.Dir))
		})
	}
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "shapes", identifier("shapes"))
	assert.Equal(t, "shape_factories", identifier("Shape-Factories"))
	assert.Equal(t, "v2", identifier("v2"))
	assert.Equal(t, "api", identifier("9api"))
	assert.Equal(t, "factories", identifier("---9"[3:]))
	assert.Equal(t, "factories", identifier("type"))
}

func TestIsGenerated(t *testing.T) {
	dir := t.TempDir()
	gen := filepath.Join(dir, "a.go")
	hand := filepath.Join(dir, "b.go")
	other := filepath.Join(dir, "c.go")
	require.NoError(t, os.WriteFile(gen, []byte("// "+config.DefaultHeader+"\n\npackage a\n"), 0o644))
	require.NoError(t, os.WriteFile(hand, []byte("package a\n"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("// Code generated by mockgen. DO NOT EDIT.\n\npackage a\n"), 0o644))

	assert.True(t, isGenerated(gen, config.DefaultHeader))
	assert.False(t, isGenerated(hand, config.DefaultHeader))
	assert.False(t, isGenerated(other, config.DefaultHeader))
	assert.False(t, isGenerated(filepath.Join(dir, "missing.go"), config.DefaultHeader))
}
