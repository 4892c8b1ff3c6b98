package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"botdemo/internal/account"
	"botdemo/internal/api"
	"botdemo/internal/config"
	"botdemo/internal/database"
	"botdemo/internal/i18n"
	"botdemo/internal/preferences"
	"botdemo/internal/sequence"
	"botdemo/internal/simulation"
)

var (
	serveMigrate       bool
	serveSweepInterval time.Duration
)

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Apply pending migrations on startup")
	serveCmd.Flags().DurationVar(&serveSweepInterval, "sweep-interval", time.Minute, "How often expired demo sessions are removed")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := database.NewPostgresRepository(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		return err
	}
	defer repo.Close()
	if serveMigrate {
		if err := repo.Migrate(ctx); err != nil {
			return err
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis is not reachable yet", "addr", cfg.Redis.Addr, "error", err)
	}

	translator, err := i18n.New()
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}

	sessions := sequence.NewRegistry(logger, sequence.RealClock(), cfg.Demo)
	defer sessions.CloseAll()
	go sessions.RunJanitor(ctx, serveSweepInterval)

	handler := newHandler(cfg, logger, api.Deps{
		Simulator:   simulation.NewEngine(logger, cfg.Simulation),
		Sessions:    sessions,
		Translator:  translator,
		Preferences: preferences.NewService(preferences.NewRedisStore(rdb, cfg.Redis.PreferenceTTL), translator, logger),
		Accounts:    account.NewService(repo, translator, logger),
		Forms:       account.NewForms(repo, logger),
		ReadyChecks: map[string]api.CheckFunc{
			"postgres": repo.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})

	logger.Info("Starting botdemo", "addr", cfg.Server.Addr)
	return api.Run(ctx, handler, cfg.Server, logger)
}

func newHandler(cfg config.Config, logger *slog.Logger, deps api.Deps) *gin.Engine {
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewAPIHandler(deps, cfg, logger).SetupRoutes()
}
