package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"kanbaniq/internal/app"
	"kanbaniq/internal/config"
	"kanbaniq/internal/db"
	"kanbaniq/internal/db/seeder"
	"kanbaniq/internal/utils"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// @title KanbanIQ API
// @version 1.0
// @description Boards, columns, tasks and invitations for the KanbanIQ SPA, with live updates over WebSocket.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Firebase ID token as "Bearer <token>"
func main() {
	logger, err := utils.NewLogger(os.Getenv("ENV"))
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cliApp := &cli.App{
		Name:  "kanbaniq",
		Usage: "KanbanIQ board API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Value:   ".env",
				Usage:   "dotenv file to load before reading configuration",
				EnvVars: []string{"ENV_FILE"},
			},
		},
		Before: func(c *cli.Context) error {
			utils.LoadEnv(logger, c.String("env-file"))
			return nil
		},
		Action: func(c *cli.Context) error {
			return serve(c.Context, logger)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API and the realtime hub",
				Action: func(c *cli.Context) error {
					return serve(c.Context, logger)
				},
			},
			{
				Name:  "migrate",
				Usage: "create or update the database schema",
				Action: func(c *cli.Context) error {
					cfg := loadConfig(logger)
					conn, err := db.Connect(&cfg, logger)
					if err != nil {
						return err
					}
					return db.Migrate(conn, logger)
				},
			},
			{
				Name:  "seed",
				Usage: "migrate, then load the demo board into an empty database",
				Action: func(c *cli.Context) error {
					cfg := loadConfig(logger)
					conn, err := db.Connect(&cfg, logger)
					if err != nil {
						return err
					}
					if err := db.Migrate(conn, logger); err != nil {
						return err
					}
					return seeder.NewSeeder(conn, logger).Seed(c.Context)
				},
			},
			{
				Name:  "email-worker",
				Usage: "consume queued notification emails and send them",
				Action: func(c *cli.Context) error {
					cfg := loadConfig(logger)
					if err := cfg.Validate(); err != nil {
						return err
					}
					worker, cleanup, err := app.NewEmailWorker(&cfg, logger)
					if err != nil {
						return err
					}
					defer cleanup()
					if err := worker.Run(c.Context); err != nil && !errors.Is(err, context.Canceled) {
						return err
					}
					return nil
				},
			},
		},
	}

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		logger.Fatal("Command failed", zap.Error(err))
	}
}

func loadConfig(logger *zap.Logger) config.Config {
	cfg := config.LoadConfig()
	logger.Info("Config loaded",
		zap.String("server_port", cfg.ServerPort),
		zap.String("db_host", cfg.DBHost),
		zap.String("redis_url", cfg.RedisURL),
		zap.String("env", cfg.Env),
		zap.String("auth_mode", cfg.AuthMode),
		zap.String("email_dispatch", cfg.EmailDispatch),
	)
	return cfg
}

func serve(ctx context.Context, logger *zap.Logger) error {
	cfg := loadConfig(logger)
	application, err := app.Bootstrap(&cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()
	return application.Serve(ctx)
}
