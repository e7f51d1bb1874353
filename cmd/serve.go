package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dotcommander/districtkpi/internal/logger"
	"github.com/dotcommander/districtkpi/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP scoring service",
	Long: `Serve exposes the scoring engine over HTTP:

  POST /v1/score       score a period (optional parameter overrides)
  GET  /v1/parameters  effective parameters
  GET  /health, /ready liveness and readiness
  GET  /metrics        prometheus metrics

The service stops on SIGINT or SIGTERM after draining in-flight requests.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd.Context()); err != nil {
			printError(cmd.ErrOrStderr(), err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	bindServeFlags()
}

func bindServeFlags() {
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(ctx context.Context) error {
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

	log := logger.InitLogger(os.Stderr, logger.Options{JSON: true, Verbose: cfg.Verbose, Quiet: cfg.Quiet})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(engine.Params, engine.Rounding, log)
	return srv.Run(ctx, cfg.Server.Addr)
}
