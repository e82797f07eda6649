package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/yamdb/internal/bootstrap"
	"anoa.com/yamdb/internal/server"
	"anoa.com/yamdb/pkg/database"
	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
)

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the API server on $PORT.

The schema is migrated on startup unless --skip-migrate is given. In
development an admin account is created when none exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not migrate the schema on startup")
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, db, err := bootstrapEnv()
	if err != nil {
		return err
	}
	logger := slog.Default()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	if !skipMigrate {
		if err := bootstrap.Migrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	if cfg.IsDevelopment() {
		if err := bootstrap.SeedAdminUser(ctx, db); err != nil {
			slog.Warn("failed to seed admin user", "error", err)
		}
	}

	redisClient, err := database.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		slog.Warn("redis unavailable, signup cooldown disabled", "error", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	srv, err := server.NewServer(cfg, db, redisClient, logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx, ":"+cfg.Port)
}
