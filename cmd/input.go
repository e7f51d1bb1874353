package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dotcommander/districtkpi/internal/outputters"
	"github.com/dotcommander/districtkpi/internal/period"
	"github.com/dotcommander/districtkpi/internal/report"
	"github.com/dotcommander/districtkpi/internal/types"
	"github.com/dotcommander/districtkpi/internal/wizard"
	"github.com/spf13/cobra"
)

var (
	inputOut     string
	inputScore   bool
	inputLabel   string
	inputModules string
)

var inputCmd = &cobra.Command{
	Use:   "input",
	Short: "Enter a period's district metrics interactively",
	Long: `Input walks through a form for each program, one field per district
metric, and writes the result as a period file (--out) or prints it as YAML.
With --score the collected period is scored immediately.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInput(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
			printError(cmd.ErrOrStderr(), err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(inputCmd)

	inputCmd.Flags().StringVar(&inputOut, "out", "", "Write the period file here (.yaml or .json)")
	inputCmd.Flags().BoolVar(&inputScore, "score", false, "Score the period after input")
	inputCmd.Flags().StringVar(&inputLabel, "period", "", "Period label, e.g. 2025-09")
	inputCmd.Flags().StringVar(&inputModules, "modules", "", "Comma-separated programs to collect (default: all)")
}

// parseModules parses a comma-separated module list.
func parseModules(s string) ([]types.Module, error) {
	var modules []types.Module
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		m, err := types.ParseModule(part)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, nil
}

func runInput(in io.Reader, out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	modules, err := parseModules(inputModules)
	if err != nil {
		return err
	}

	// The form itself renders on stderr so stdout stays clean for the period.
	p, err := wizard.RunPeriodWizard(in, os.Stderr, wizard.Options{
		Label:   inputLabel,
		Modules: modules,
		Lang:    cfg.Lang,
	})
	if err != nil {
		return err
	}

	if inputOut != "" {
		if err := period.Save(p, inputOut); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", inputOut)
	} else if !inputScore {
		data, err := period.Marshal(p, "yaml")
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	}

	if !inputScore {
		return nil
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	r := report.New(p.Label, engine, p.Inputs())
	r.Source = inputOut
	return outputters.NewOutputterTo(cfg, out).Format(report.Single(r, cfg.Lang), cfg.Format)
}
