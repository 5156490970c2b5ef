package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erazemk/binventory/internal/config"
	"github.com/erazemk/binventory/internal/db"
	"github.com/erazemk/binventory/internal/logging"
	"github.com/erazemk/binventory/internal/store"
)

var (
	configPath string
	dbPath     string
	addr       string
	logPath    string
)

var rootCmd = &cobra.Command{
	Use:           "binventory",
	Short:         "binventory - personal inventory tracker",
	Long:          `binventory keeps track of where things are: items stored in areas, containers and bins, searchable by name, description, location and tag.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&logPath, "log", "l", "", "log file path (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(reindexCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(userCmd)
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if logPath != "" {
		cfg.Log.File = logPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// app bundles what every command needs.
type app struct {
	cfg    *config.Config
	db     *db.DB
	logger *zap.Logger
	close  func()
}

// setup loads config, builds the logger and opens the migrated database.
func setup(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)

	database, err := db.Open(cfg.Database.Path, db.Options{
		MaxOpenConns:  cfg.Database.MaxOpenConns,
		BusyTimeoutMS: cfg.Database.BusyTimeoutMS,
	})
	if err != nil {
		closeLog()
		return nil, err
	}

	rebuilt, err := store.Migrate(ctx, database)
	if err != nil {
		database.Close()
		closeLog()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	if rebuilt {
		logger.Info("search index rebuilt for new index version", zap.String("version", db.FTSVersion))
	}

	return &app{
		cfg:    cfg,
		db:     database,
		logger: logger,
		close: func() {
			database.Close()
			closeLog()
		},
	}, nil
}
