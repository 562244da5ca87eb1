// Package testutil loads the fixtures under testdata for package tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/origadmin/factorygen/internal/analyzer"
	"github.com/origadmin/factorygen/internal/config"
)

// Root returns the repository root.
func Root() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

// FixtureDir returns the absolute directory of testdata/name.
func FixtureDir(t testing.TB, name string) string {
	t.Helper()
	dir := filepath.Join(Root(), "testdata", name)
	_, err := os.Stat(dir)
	require.NoError(t, err, "fixture %s", name)
	return dir
}

// Scratch copies fixture name into a new directory under testdata that is
// removed when t ends, and returns the copy's name. Tests that edit sources
// use it so that other packages loading the fixture are not affected.
func Scratch(t testing.TB, name string) string {
	t.Helper()
	dir, err := os.MkdirTemp(filepath.Join(Root(), "testdata"), "scratch_"+name+"_")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	require.NoError(t, os.CopyFS(dir, os.DirFS(FixtureDir(t, name))))
	return filepath.Base(dir)
}

// Config returns a config scanning every package directory of the fixture
// and writing the factory unit into its gen package.
func Config(t testing.TB, name string) *config.Config {
	t.Helper()
	dir := FixtureDir(t, name)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var patterns []string
	for _, e := range entries {
		if e.IsDir() {
			patterns = append(patterns, "./"+e.Name())
		}
	}
	sort.Strings(patterns)

	cfg := config.NewConfig()
	cfg.Dir = dir
	cfg.Patterns = patterns
	cfg.OutputDir = "gen"
	return cfg
}

// Load type checks the fixture.
func Load(t testing.TB, name string, mutate ...func(*config.Config)) (*config.Config, *analyzer.Compilation) {
	t.Helper()
	cfg := Config(t, name)
	for _, m := range mutate {
		m(cfg)
	}
	comp, err := analyzer.Load(context.Background(), cfg)
	require.NoError(t, err)
	require.NotEmpty(t, comp.Packages)
	return cfg, comp
}

// Markers returns the marker symbols of comp.
func Markers(t testing.TB, comp *analyzer.Compilation) *analyzer.Markers {
	t.Helper()
	m, ok := analyzer.FindMarkers(comp, config.DefaultMarkerPackage)
	require.True(t, ok, "marker package not loaded")
	return m
}
