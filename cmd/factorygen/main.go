// Command factorygen generates simple factories and factory methods for the
// types marked with factory.ProductOf and factory.CreatorOf.
//
// Typical use is a go:generate line next to the output package:
//
//	//go:generate go run github.com/origadmin/factorygen/cmd/factorygen generate ./...
package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"

	"github.com/origadmin/factorygen/internal/logger"
)

func main() {
	err := newRootCmd().Execute()
	logger.Sync()
	if err != nil {
		if !errors.Is(err, errReported) {
			pterm.Error.Println(err.Error())
			for _, hint := range errors.GetAllHints(err) {
				pterm.Info.Println(hint)
			}
		}
		os.Exit(1)
	}
}
