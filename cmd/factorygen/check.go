package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/origadmin/factorygen/internal/core"
)

func newCheckCmd(root *rootFlags, v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "check [patterns]",
		Short: "Fail when generated files are missing or out of date",
		Long: `Check runs the generator without writing anything. It exits with status 1
when a diagnostic is reported or when a generated file would be created,
changed or deleted, which makes it suitable for CI.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root, v, args)
			if err != nil {
				return err
			}
			res, err := core.Run(cmd.Context(), cfg)
			if res != nil {
				printDiagnostics(cmd.ErrOrStderr(), res)
			}
			if err != nil {
				return err
			}
			stale, err := res.Stale()
			if err != nil {
				return err
			}
			for _, path := range stale {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}

			if len(stale) > 0 || res.Diagnostics.Len() > 0 {
				pterm.Error.WithWriter(cmd.ErrOrStderr()).Printfln("%d stale files, %d diagnostics",
					len(stale), res.Diagnostics.Len())
				return errReported
			}
			pterm.Success.WithWriter(cmd.ErrOrStderr()).Println("generated files are up to date")
			return nil
		},
	}
}
