package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"carteira/internal/config"
	"carteira/internal/database"
	"carteira/internal/httpserver"
	"carteira/internal/logutil"
	"carteira/internal/router"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

func main() {
	configPath := ""
	app := &cli.App{
		Name:  "carteira",
		Usage: "Manage shared subscription accounts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to the YAML config file (defaults to ./config.yaml when present)",
				EnvVars:     []string{"CARTEIRA_CONFIG"},
				Destination: &configPath,
			},
		},
		Commands: []*cli.Command{
			serveCmd(&configPath),
			migrateCmd(&configPath),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}

func serveCmd(configPath *string) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run migrations and start the HTTP API",
		Action: func(c *cli.Context) error {
			cfg, ctx, closeLog, err := setup(c.Context, *configPath)
			if err != nil {
				return err
			}
			defer closeLog()

			db, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			logger := logutil.GetOrDefault(ctx)
			handler, err := router.SetupRouter(cfg, db, logger)
			if err != nil {
				return err
			}
			addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
			return httpserver.Serve(ctx, addr, handler)
		},
	}
}

func migrateCmd(configPath *string) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update the database schema and exit",
		Action: func(c *cli.Context) error {
			cfg, ctx, closeLog, err := setup(c.Context, *configPath)
			if err != nil {
				return err
			}
			defer closeLog()

			db, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			return database.Close(db)
		},
	}
}

// setup loads the config and puts the process logger on the returned context.
func setup(ctx context.Context, configPath string) (*config.Config, context.Context, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, closer, err := logutil.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Logger = logger
	closeLog := func() {
		if err := closer.Close(); err != nil {
			logger.Warn().Err(err).Msg("Unable to close log file")
		}
	}
	return cfg, logutil.WithLogger(ctx, logger), closeLog, nil
}

func openDB(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	log := logutil.GetOrDefault(ctx)
	db, err := database.Init(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("Database ready")
	return db, nil
}
