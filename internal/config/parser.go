package config

import (
	"go/ast"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"

	"github.com/origadmin/factorygen/internal/logger"
)

// DirectivePrefix starts every in-source configuration comment, for example
//
//	//go:factorygen:duplicates=reject
const DirectivePrefix = "//go:factorygen:"

// Directive is one parsed in-source setting.
type Directive struct {
	Key   string
	Value string
	// Pos is the file:line of the comment, for error messages.
	Pos string
}

// Parser applies in-source directives on top of a loaded Config.
type Parser struct {
	config *Config
}

// NewParser returns a parser that updates cfg in place. Callers that reuse
// cfg across runs pass a Clone.
func NewParser(cfg *Config) *Parser {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Parser{config: cfg}
}

// Config returns the config being updated.
func (p *Parser) Config() *Config {
	return p.config
}

// DiscoverDirectives collects the factorygen directives of pkg in file order.
func DiscoverDirectives(pkg *packages.Package) []Directive {
	var directives []Directive
	for _, file := range pkg.Syntax {
		directives = append(directives, fileDirectives(pkg, file)...)
	}
	return directives
}

func fileDirectives(pkg *packages.Package, file *ast.File) []Directive {
	var directives []Directive
	for _, group := range file.Comments {
		for _, comment := range group.List {
			if !strings.HasPrefix(comment.Text, DirectivePrefix) {
				continue
			}
			d := splitDirective(strings.TrimSpace(comment.Text))
			if pkg.Fset != nil {
				pos := pkg.Fset.Position(comment.Pos())
				d.Pos = pos.Filename + ":" + strconv.Itoa(pos.Line)
			}
			directives = append(directives, d)
		}
	}
	return directives
}

func splitDirective(text string) Directive {
	text = strings.TrimPrefix(text, DirectivePrefix)
	key, value, _ := strings.Cut(text, "=")
	return Directive{
		Key:   strings.TrimSpace(key),
		Value: strings.Trim(strings.TrimSpace(value), `"`),
	}
}

// ParsePackages applies the directives of pkgs. Packages are visited by
// import path so that a later package overrides an earlier one
// deterministically.
func (p *Parser) ParsePackages(pkgs []*packages.Package) (*Config, error) {
	sorted := make([]*packages.Package, len(pkgs))
	copy(sorted, pkgs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PkgPath < sorted[j].PkgPath })

	for _, pkg := range sorted {
		for _, d := range DiscoverDirectives(pkg) {
			if err := p.Apply(d); err != nil {
				return nil, err
			}
		}
	}
	return p.config, nil
}

// ParseLines applies raw directive comments, mostly useful in tests.
func (p *Parser) ParseLines(lines ...string) (*Config, error) {
	for _, line := range lines {
		if err := p.Apply(splitDirective(strings.TrimSpace(line))); err != nil {
			return nil, err
		}
	}
	return p.config, nil
}

// Apply sets one directive on the config.
func (p *Parser) Apply(d Directive) error {
	logger.Logger.Debugw("apply directive", "key", d.Key, "value", d.Value, "pos", d.Pos)
	switch d.Key {
	case "output":
		p.config.Output = d.Value
	case "register_output":
		p.config.RegisterOutput = d.Value
	case "output_dir":
		p.config.OutputDir = d.Value
	case "output_package":
		p.config.OutputPackage = d.Value
	case "duplicates":
		p.config.Duplicates = d.Value
	case "strict":
		b, err := parseBool(d.Value)
		if err != nil {
			return errors.Wrapf(err, "%s: directive strict", d.Pos)
		}
		p.config.Strict = b
	case "markers":
		p.config.Markers = d.Value
	case "header":
		p.config.Header = d.Value
	case "build_tags":
		// Directives are read from packages that are already loaded.
		return errors.WithHint(
			errors.Newf("%s: directive build_tags is not supported", d.Pos),
			"set build tags with --build-tags or build_tags in the config file")
	default:
		logger.Logger.Warnw("unknown factorygen directive ignored", "key", d.Key, "pos", d.Pos)
	}
	return nil
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return true, nil
	}
	return strconv.ParseBool(s)
}

