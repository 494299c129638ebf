package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/komodo-tools/komodo-mcp/pkg/config"
	"github.com/komodo-tools/komodo-mcp/pkg/service/bootstrap"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	envFile   string
	transport string
	httpAddr  string
	httpPort  int
	debug     bool
)

var rootCmd = &cobra.Command{
	Use:           "komodo-mcp",
	Short:         "MCP server exposing a Komodo core over stdio or HTTP",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("komodo-mcp %s (commit %s, built %s)\n", Version, GitCommit, BuildTime)
	},
}

func init() {
	rootCmd.Flags().StringVar(&envFile, "env-file", "", "Path to a .env file to load before reading the environment")
	rootCmd.Flags().StringVar(&transport, "transport", "", "Transport type (stdio, http)")
	rootCmd.Flags().StringVar(&httpAddr, "http-addr", "", "HTTP listen address")
	rootCmd.Flags().IntVar(&httpPort, "http-port", 0, "HTTP listen port")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(versionCmd)
}

func run(ctx context.Context) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)

	logger := newLogger(cfg.Debug)
	log.Info().
		Str("version", Version).
		Str("transport", cfg.Transport).
		Str("access", cfg.Access.String()).
		Msg("Starting Komodo MCP server")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := bootstrap.New(logger, cfg, Version)
	if err := b.CheckConnectivity(ctx); err != nil {
		return err
	}

	mcpServer := b.CreateMCPServer()
	if err := b.RegisterComponents(mcpServer); err != nil {
		return err
	}
	return b.Run(ctx, mcpServer)
}

// applyFlagOverrides lets command line flags win over environment
// configuration.
func applyFlagOverrides(cfg *config.Config) {
	if transport != "" {
		cfg.Transport = transport
	}
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}
	if httpPort > 0 {
		cfg.HTTPPort = httpPort
	}
	if debug {
		cfg.Debug = true
	}
}

// newLogger builds the component logger. Everything goes to stderr so
// stdout stays clean for the stdio transport.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Server failed")
		os.Exit(1)
	}
}
