package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dotcommander/districtkpi/internal/discovery"
	"github.com/dotcommander/districtkpi/internal/outputters"
	"github.com/dotcommander/districtkpi/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var (
	batchRoot        string
	batchConcurrency int
	followSymlinks   bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [pattern...]",
	Short: "Score every period file matching the patterns",
	Long: `Batch finds period files under --root with doublestar patterns
(default **/*.period.yaml, **/*.period.yml, **/*.period.json) and scores them
concurrently. Reports are printed in path order; files that fail to load are
listed after them and make the command exit non-zero.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runBatch(cmd.Context(), cmd.OutOrStdout(), args); err != nil {
			printError(cmd.ErrOrStderr(), err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchRoot, "root", "r", ".", "Directory to search for period files")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "j", 4, "Number of files scored in parallel")
	batchCmd.Flags().BoolVar(&followSymlinks, "follow-symlinks", false, "Follow symlinked period files")

	bindBatchFlags()
}

func bindBatchFlags() {
	_ = viper.BindPFlag("root", batchCmd.Flags().Lookup("root"))
	_ = viper.BindPFlag("concurrency", batchCmd.Flags().Lookup("concurrency"))
}

// batchResult is one file's outcome, stored at the file's index.
type batchResult struct {
	report *report.Report
	err    error
}

func runBatch(ctx context.Context, out io.Writer, patterns []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	files, err := discovery.NewFileDiscovery(cfg.Root, followSymlinks).Discover(patterns...)
	if err != nil {
		return fmt.Errorf("error discovering period files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no period files found under %s", cfg.Root)
	}
	slog.Debug("discovered period files", "root", cfg.Root, "count", len(files))

	results := make([]batchResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := scoreFile(engine, f.Path)
			if err == nil {
				r.Source = f.RelPath
			}
			results[i] = batchResult{report: r, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	b := &report.Batch{Lang: cfg.Lang}
	for i, res := range results {
		if res.err != nil {
			slog.Debug("period file failed", "path", files[i].RelPath, "error", res.err)
			b.Failures = append(b.Failures, report.Failure{Source: files[i].RelPath, Error: res.err.Error()})
			continue
		}
		b.Reports = append(b.Reports, res.report)
	}

	if err := outputters.NewOutputterTo(cfg, out).Format(b, cfg.Format); err != nil {
		return err
	}
	if len(b.Failures) > 0 {
		return fmt.Errorf("%d of %d period files could not be scored", len(b.Failures), len(files))
	}
	return nil
}
