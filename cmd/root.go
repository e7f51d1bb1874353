package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dotcommander/districtkpi/internal/config"
	"github.com/dotcommander/districtkpi/internal/cue"
	"github.com/dotcommander/districtkpi/internal/logger"
	"github.com/dotcommander/districtkpi/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// exitFunc is swapped out in tests.
var exitFunc = os.Exit

var (
	configFile   string
	quiet        bool
	verbose      bool
	outputFormat string
	outputFile   string
	lang         string
	rounding     string
)

var rootCmd = &cobra.Command{
	Use:   "districtkpi [period-file]",
	Short: "District KPI - score district operations against assessment thresholds",
	Long: `districtkpi scores the six districts and the city aggregate under three
assessment programs: complaint and repeat-fault management, delivery
timeliness and success, and dedicated-circuit outage control.

Given a period file, every program present in the file is scored. Use the
program commands to score one program, batch to score many files, input to
enter a period interactively and serve to run the HTTP scoring service.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}
		if err := runScore(cmd.OutOrStdout(), args[0]); err != nil {
			printError(cmd.ErrOrStderr(), err)
			exitFunc(1)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitFunc(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Version = Version

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: .districtkpirc.{json,yaml,yml} in the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Print city totals only")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "console", "Output format (console|json|markdown|html)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Write the report to a file instead of stdout")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "zh", "Label language (zh|en)")
	rootCmd.PersistentFlags().StringVar(&rounding, "rounding", "step", "Rounding policy (step|final)")

	bindRootFlags()
}

// bindRootFlags binds the global flags to their config keys.
func bindRootFlags() {
	flags := rootCmd.PersistentFlags()
	for _, name := range []string{"quiet", "verbose", "format", "output", "lang", "rounding"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

func initConfig() {
	report.Version = Version
	logger.InitLogger(os.Stderr, logger.Options{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
	})
}

// loadConfig loads the effective configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	return cfg, nil
}

// printError prints err to w. Schema violations are listed one per line.
func printError(w io.Writer, err error) {
	var verrs cue.ValidationErrors
	if !errors.As(err, &verrs) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	prefix := strings.TrimSuffix(err.Error(), verrs.Error())
	fmt.Fprintf(w, "Error: %svalidation failed\n", prefix)
	for _, ve := range verrs {
		fmt.Fprintf(w, "  %s\n", ve.Error())
	}
}
