// Package factorycheck reports invalid factory marker usages as go vet
// diagnostics, without generating code.
package factorycheck

import (
	"golang.org/x/tools/go/analysis"

	"github.com/origadmin/factorygen/internal/analyzer"
	"github.com/origadmin/factorygen/internal/config"
	"github.com/origadmin/factorygen/internal/diag"
	"github.com/origadmin/factorygen/internal/planner"
	"github.com/origadmin/factorygen/internal/rules"
)

const doc = `check factory marker usages

The factorycheck analyzer reports the problems that make factorygen skip a
target: generic marked types (SFG001), products whose New function needs
arguments (SFG002), mixed key types (SFG003), marked types not implementing
their target (SFG004), marked types outside the module of their target
(SFG005), malformed marker tags (SFG006) and, with -duplicates=reject,
duplicate keys (SFG007).`

// Analyzer is the factorycheck analysis pass.
var Analyzer = &analysis.Analyzer{
	Name: "factorycheck",
	Doc:  doc,
	URL:  config.WebSite,
	Run:  run,
}

var (
	markersFlag    = config.DefaultMarkerPackage
	duplicatesFlag = config.DuplicatesReplace
)

func init() {
	Analyzer.Flags.StringVar(&markersFlag, "markers", markersFlag, "import path of the marker package")
	Analyzer.Flags.StringVar(&duplicatesFlag, "duplicates", duplicatesFlag, "duplicate key policy: replace or reject")
}

func run(pass *analysis.Pass) (any, error) {
	comp := analyzer.FromPass(pass)
	markers, ok := analyzer.FindMarkers(comp, markersFlag)
	if !ok {
		return nil, nil
	}

	bag := diag.NewBag(pass.Fset)
	items := analyzer.NewExtractor(comp, markers, bag).Extract()
	ctx := &rules.Context{
		Comp:             comp,
		Markers:          markers,
		Diags:            bag,
		RejectDuplicates: duplicatesFlag == config.DuplicatesReject,
	}
	for _, g := range planner.Group(items) {
		rules.Validate(ctx, g, rules.Default)
	}

	for _, d := range bag.Items() {
		pass.Report(analysis.Diagnostic{
			Pos:      d.Pos,
			Category: d.Code,
			Message:  d.Code + ": " + d.Message,
		})
	}
	return nil, nil
}
