package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/paperrun/paperrun/internal/config"
	"github.com/paperrun/paperrun/internal/interfaces/http"
	"github.com/paperrun/paperrun/internal/paper"
	"github.com/paperrun/paperrun/internal/validate"
)

const (
	appName = "paperrun"
	version = "v1.2.0"
)

var flagConfigPath string

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Paper trading session engine and cross-mode performance validator",
		Version: version,
		Long: `paperrun simulates trading portfolios without risking capital and validates
their performance against stored backtest and live trading results.

Run 'paperrun serve' to expose the session API, or use the validate/compare/
slippage subcommands for one-shot analysis.`,
	}
	rootCmd.PersistentFlags().StringVarP(&flagConfigPath, "config", "c", "", "path to YAML config (default $PAPERRUN_CONFIG)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the paper trading session API server",
		RunE:  runServe,
	}
	serveCmd.Flags().String("host", "", "bind host (overrides config)")
	serveCmd.Flags().Int("port", 0, "bind port (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newSlippageCmd())
	rootCmd.AddCommand(newSessionsCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return err
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}

	metrics := http.NewMetricsRegistry()
	writer := paper.NewSnapshotWriter(cfg.Snapshots.Dir)
	registry := paper.NewRegistry(cfg.Session,
		paper.WithSnapshotWriter(writer),
		paper.WithSnapshotErrorHook(func(error) { metrics.SnapshotFailures.Inc() }),
	)
	engine := validate.NewEngine(&cfg.Validation)

	serverCfg := http.DefaultServerConfig()
	serverCfg.Host = cfg.Server.Host
	serverCfg.Port = cfg.Server.Port
	serverCfg.RateLimit = cfg.Server.RateLimit
	serverCfg.RateBurst = cfg.Server.RateBurst

	server := http.NewServer(serverCfg, registry, engine, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("version", version).
		Str("snapshot_dir", cfg.Snapshots.Dir).
		Msg("Starting paperrun")
	return server.Start(ctx)
}
