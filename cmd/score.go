package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/dotcommander/districtkpi/internal/config"
	"github.com/dotcommander/districtkpi/internal/discovery"
	"github.com/dotcommander/districtkpi/internal/outputters"
	"github.com/dotcommander/districtkpi/internal/period"
	"github.com/dotcommander/districtkpi/internal/report"
	"github.com/dotcommander/districtkpi/internal/scoring"
	"github.com/dotcommander/districtkpi/internal/types"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score <period-file>",
	Short: "Score every program present in a period file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runScore(cmd.OutOrStdout(), args[0]); err != nil {
			printError(cmd.ErrOrStderr(), err)
			exitFunc(1)
		}
	},
}

var moduleShort = map[types.Module]string{
	types.ModuleComplaint: "Score complaint and repeat-fault management",
	types.ModuleDelivery:  "Score delivery timeliness and success",
	types.ModuleOutage:    "Score dedicated-circuit outage control",
}

// newModuleCmd builds the command that scores a single program.
func newModuleCmd(m types.Module) *cobra.Command {
	return &cobra.Command{
		Use:   string(m) + " <period-file>",
		Short: moduleShort[m],
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runScore(cmd.OutOrStdout(), args[0], m); err != nil {
				printError(cmd.ErrOrStderr(), err)
				exitFunc(1)
			}
		},
	}
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	for _, m := range types.AllModules() {
		rootCmd.AddCommand(newModuleCmd(m))
	}
}

// runScore scores one period file, restricted to modules when any are given.
func runScore(out io.Writer, path string, modules ...types.Module) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	if _, err := discovery.ValidateFilePath(path); err != nil {
		return err
	}

	r, err := scoreFile(engine, path, modules...)
	if err != nil {
		return err
	}

	return outputters.NewOutputterTo(cfg, out).Format(report.Single(r, cfg.Lang), cfg.Format)
}

// newEngine builds the scoring engine from the validated config.
func newEngine(cfg *config.Config) (*scoring.Engine, error) {
	params, err := cfg.ScoringParameters()
	if err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	return scoring.NewEngine(params, cfg.RoundingPolicy()), nil
}

// scoreFile loads and scores one period file.
func scoreFile(engine *scoring.Engine, path string, modules ...types.Module) (*report.Report, error) {
	p, err := period.Load(path)
	if err != nil {
		return nil, err
	}

	in := p.Inputs()
	if len(modules) > 0 {
		in = in.Only(modules...)
		if in.Empty() {
			names := make([]string, len(modules))
			for i, m := range modules {
				names[i] = string(m)
			}
			return nil, fmt.Errorf("%s has no %s section", path, strings.Join(names, ", "))
		}
	}

	label := p.Label
	if label == "" {
		label = discovery.LabelFromPath(path)
	}
	r := report.New(label, engine, in)
	r.Source = path
	return r, nil
}
