// Command factorycheck runs the factorycheck analyzer standalone or as a
// go vet tool:
//
//	go vet -vettool=$(which factorycheck) ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/origadmin/factorygen/passes/factorycheck"
)

func main() {
	singlechecker.Main(factorycheck.Analyzer)
}
