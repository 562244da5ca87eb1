package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/origadmin/factorygen/internal/config"
	"github.com/origadmin/factorygen/internal/core"
)

type generateOptions struct {
	watch  bool
	dryRun bool
}

func newGenerateCmd(root *rootFlags, v *viper.Viper) *cobra.Command {
	opts := generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [patterns]",
		Short: "Generate factories for the marked types of the given packages",
		Long: `Generate loads the packages matched by the patterns (default ./...), validates
every factory marker and writes the factory unit into the output package and a
registration unit into every package that declares products.

Invalid targets are reported and skipped: the valid ones are still written and
the command exits with status 1. With --strict any diagnostic fails the run
before anything is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root, v, args)
			if err != nil {
				return err
			}
			if !opts.watch {
				_, err := runGenerate(cmd.Context(), cfg, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return watch(ctx, cfg, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "regenerate when Go files of the scanned packages change")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "list the files that would change without writing them")
	return cmd
}

func runGenerate(ctx context.Context, cfg *config.Config, opts generateOptions, out, errOut io.Writer) (*core.Result, error) {
	res, err := core.Run(ctx, cfg)
	if res != nil {
		printDiagnostics(errOut, res)
	}
	if err != nil {
		return res, err
	}

	var changed []string
	if opts.dryRun {
		changed, err = res.Stale()
	} else {
		changed, err = res.Write()
	}
	if err != nil {
		return res, err
	}

	for _, path := range changed {
		fmt.Fprintln(out, path)
	}
	if res.Diagnostics.HasErrors() {
		pterm.Error.WithWriter(errOut).Printfln("%d factories, %d files changed, %d diagnostics",
			len(res.Plan.Factories), len(changed), res.Diagnostics.Len())
		return res, errReported
	}
	if !opts.dryRun {
		pterm.Success.WithWriter(errOut).Printfln("%d factories, %d files changed",
			len(res.Plan.Factories), len(changed))
	}
	return res, nil
}

func printDiagnostics(w io.Writer, res *core.Result) {
	for _, d := range res.Diagnostics.Items() {
		fmt.Fprintln(w, d.String())
	}
}
