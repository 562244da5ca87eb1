package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/origadmin/factorygen/internal/config"
	"github.com/origadmin/factorygen/internal/logger"
)

// errReported is returned by commands that already printed why they failed.
var errReported = errors.New("failure reported")

type rootFlags struct {
	configFile string
	dir        string
	debug      bool
	logJSON    bool
	logFile    string
}

// configFlags maps command line flags to config keys.
var configFlags = map[string]string{
	"output":          "output",
	"register-output": "register_output",
	"output-dir":      "output_dir",
	"output-package":  "output_package",
	"duplicates":      "duplicates",
	"strict":          "strict",
	"markers":         "markers",
	"build-tags":      "build_tags",
	"header":          "header",
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&rootFlags{}, viper.New())
}

func newRootCmdWith(flags *rootFlags, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:           config.Application,
		Short:         config.Description,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Initialize(logger.Options{Debug: flags.debug, JSON: flags.logJSON, File: flags.logFile})
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configFile, "config", "c", "", "config file (default: factorygen.{yaml,toml} in --dir)")
	pf.StringVarP(&flags.dir, "dir", "C", ".", "directory package patterns are resolved against")
	pf.BoolVar(&flags.debug, "debug", false, "enable debug logging")
	pf.BoolVar(&flags.logJSON, "log-json", false, "log as JSON")
	pf.StringVar(&flags.logFile, "log-file", "", "write logs to this file instead of stderr")

	d := config.NewConfig()
	pf.StringP("output", "o", d.Output, "file name of the factory unit")
	pf.String("register-output", d.RegisterOutput, "file name of the registration unit written into product packages")
	pf.String("output-dir", "", "directory of the output package, relative to --dir")
	pf.String("output-package", "", "package name used when the output directory has no Go files")
	pf.String("duplicates", d.Duplicates, "duplicate key policy: replace or reject")
	pf.Bool("strict", false, "fail the run on any diagnostic")
	pf.String("markers", d.Markers, "import path of the marker package")
	pf.StringSlice("build-tags", nil, "build tags used to load packages")
	pf.String("header", d.Header, "first comment of generated files")
	for flag, key := range configFlags {
		_ = v.BindPFlag(key, pf.Lookup(flag))
	}

	cmd.AddCommand(newGenerateCmd(flags, v))
	cmd.AddCommand(newCheckCmd(flags, v))
	cmd.AddCommand(newInspectCmd(flags, v))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadConfig merges defaults, the config file, FACTORYGEN_* variables and
// flags, in increasing priority. Positional arguments replace the package
// patterns.
func loadConfig(flags *rootFlags, v *viper.Viper, args []string) (*config.Config, error) {
	v.SetEnvPrefix("FACTORYGEN")
	v.AutomaticEnv()
	config.SetDefaults(v)
	v.Set("dir", flags.dir)

	if flags.configFile != "" {
		v.SetConfigFile(flags.configFile)
	} else {
		v.SetConfigName("factorygen")
		v.AddConfigPath(flags.dir)
	}
	cfg, err := config.LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Patterns = args
	}
	return cfg, nil
}
