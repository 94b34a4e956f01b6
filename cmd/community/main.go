// Package main is the entry point of the community board API.
//
// Layout follows Clean Architecture:
//   - Domain: member, board, post, comment aggregates
//   - Application: services orchestrating repositories and the post cache
//   - Infrastructure: PostgreSQL (pgx), SQLite (gorm), Redis
//   - Interface: REST API
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/efub/community-board/config"
	"github.com/efub/community-board/pkg/logger"
)

const programName = "community"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var globalFlags = struct {
	debug   bool
	envFile string
}{}

// loadConfig reads the configuration and builds the process logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(globalFlags.envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	opts.Format = logger.Format(cfg.Observability.LogFormat)
	if globalFlags.debug || cfg.App.Debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	log := logger.New(opts).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", string(cfg.App.Environment)),
	)
	slog.SetDefault(log)

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, v ...any) {
		log.Info(fmt.Sprintf(format, v...), logger.Component("maxprocs"))
	})); err != nil {
		log.Warn("failed to set GOMAXPROCS", logger.Err(err))
	}

	return cfg, log, nil
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", programName, version)
		},
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Community board REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&globalFlags.envFile, "env-file", ".env", "path to a .env file (ignored if missing)")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())
	rootCmd.AddCommand(versionCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}
