package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/origadmin/factorygen/internal/analyzer"
	"github.com/origadmin/factorygen/internal/core"
	"github.com/origadmin/factorygen/internal/model"
)

// Report is the inspect output of one run.
type Report struct {
	Output      string          `yaml:"output"`
	Factories   []FactoryReport `yaml:"factories"`
	Rejected    int             `yaml:"rejected"`
	Diagnostics []string        `yaml:"diagnostics,omitempty"`
}

// FactoryReport describes one generated factory.
type FactoryReport struct {
	Name    string         `yaml:"name"`
	Pattern string         `yaml:"pattern"`
	Target  string         `yaml:"target"`
	Key     string         `yaml:"key"`
	Members []MemberReport `yaml:"members"`
}

// MemberReport describes one product or creator.
type MemberReport struct {
	Key          string            `yaml:"key,omitempty"`
	Type         string            `yaml:"type"`
	Construction string            `yaml:"construction"`
	Tags         map[string]string `yaml:"tags,omitempty"`
}

func newInspectCmd(root *rootFlags, v *viper.Viper) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect [patterns]",
		Short: "Show the factories that generate would write",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root, v, args)
			if err != nil {
				return err
			}
			res, err := core.Run(cmd.Context(), cfg)
			if err != nil && res == nil {
				return err
			}
			report := buildReport(res)
			switch format {
			case "yaml":
				return writeYAML(cmd.OutOrStdout(), report)
			case "table":
				return writeTable(cmd.OutOrStdout(), report)
			default:
				return errors.WithHint(errors.Newf("unknown format %q", format), "use table or yaml")
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table or yaml")
	return cmd
}

func buildReport(res *core.Result) Report {
	r := Report{Output: res.Output.Path, Rejected: res.Plan.Rejected}
	for _, d := range res.Diagnostics.Items() {
		r.Diagnostics = append(r.Diagnostics, d.String())
	}
	for _, f := range res.Plan.Factories {
		fr := FactoryReport{
			Name:    f.Name,
			Pattern: f.Pattern.String(),
			Target:  analyzer.ShortName(f.Target),
			Key:     analyzer.ShortName(f.Key),
		}
		for _, p := range f.Products {
			fr.Members = append(fr.Members, MemberReport{
				Key:          p.Label.String(),
				Type:         analyzer.ShortName(p.Class.Type()),
				Construction: describe(p.Construction),
				Tags:         tagMap(p.Tags),
			})
		}
		for _, c := range f.Creators {
			fr.Members = append(fr.Members, MemberReport{
				Type:         analyzer.ShortName(c.Class.Type()),
				Construction: describe(c.Construction),
				Tags:         tagMap(c.Tags),
			})
		}
		r.Factories = append(r.Factories, fr)
	}
	return r
}

func describe(c model.Construction) string {
	switch c := c.(type) {
	case model.DynamicActivate:
		return "activate " + c.QualifiedName
	case model.DirectConstruct:
		switch {
		case c.Ctor != nil && c.CtorReturnsError:
			return c.Ctor.Name() + "() with error"
		case c.Ctor != nil:
			return c.Ctor.Name() + "()"
		case c.Pointer:
			return "&" + c.Type.Name() + "{}"
		default:
			return c.Type.Name() + "{}"
		}
	}
	return "unknown"
}

func tagMap(tags []model.Tag) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		m[t.Name] = t.Value.String()
	}
	return m
}

func writeYAML(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(err, "encode report")
	}
	return enc.Close()
}

func writeTable(w io.Writer, r Report) error {
	data := pterm.TableData{{"Factory", "Pattern", "Target", "Key", "Member", "Construction"}}
	for _, f := range r.Factories {
		for _, m := range f.Members {
			member := m.Type
			if m.Key != "" {
				member = m.Key + " => " + m.Type
			}
			data = append(data, []string{f.Name, f.Pattern, f.Target, f.Key, member, m.Construction})
		}
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "render table")
	}
	fmt.Fprintln(w, table)
	if len(r.Diagnostics) > 0 {
		fmt.Fprintln(w, strings.Join(r.Diagnostics, "\n"))
	}
	fmt.Fprintf(w, "output package %s, %d rejected targets\n", r.Output, r.Rejected)
	return nil
}
