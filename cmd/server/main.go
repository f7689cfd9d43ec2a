/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the commission management server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (config file, environment, defaults)
  2. Build the zap logger and install it as the global
  3. Open the SQLite store
  4. Create the API handler and forecast scheduler
  5. Start the HTTP server with graceful shutdown

CONFIGURATION:
  Keys come from a config file (commission.yaml in . or /etc/commission)
  or environment variables prefixed COMMISSION_:
    port               HTTP server port (default: 8080)
    db                 SQLite database path (default: commission.db,
                       use ":memory:" for an in-memory database)
    log_level          zap level: debug, info, warn, error (default: info)
    scheduler.enabled  Background forecast refresher on/off (default: true)
    scheduler.interval Refresh interval (default: 1h)
    scheduler.horizon  Snapshot horizon in years (default: 5)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the forecast scheduler
  2. Stop accepting new connections, drain requests (30s timeout)
  3. Close the database
  4. Exit

EXAMPLES:
  COMMISSION_DB=./data/commission.db ./server
  COMMISSION_PORT=3000 ./server
  COMMISSION_DB=:memory: COMMISSION_LOG_LEVEL=debug ./server

SEE ALSO:
  - api/server.go: Router configuration
  - api/scheduler.go: Background forecast refresher
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/warp/commission-engine/api"
	"github.com/warp/commission-engine/store/sqlite"
)

func main() {
	cfg := loadConfig()

	logger, err := buildLogger(cfg.GetString("log_level"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	st, err := sqlite.New(cfg.GetString("db"))
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", cfg.GetString("db")), zap.Error(err))
	}
	defer st.Close()

	handler := api.NewHandler(st, st)

	sched := api.NewForecastScheduler(st, handler.Projector)
	sched.Enabled = cfg.GetBool("scheduler.enabled")
	sched.RefreshInterval = cfg.GetDuration("scheduler.interval")
	sched.HorizonYears = cfg.GetInt("scheduler.horizon")
	handler.Scheduler = sched
	sched.Start()
	defer sched.Stop()

	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.GetInt("port")),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.Int("port", cfg.GetInt("port")),
			zap.String("db", cfg.GetString("db")))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

func loadConfig() *viper.Viper {
	v := viper.New()

	v.SetDefault("port", 8080)
	v.SetDefault("db", "commission.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.interval", time.Hour)
	v.SetDefault("scheduler.horizon", 5)

	v.SetConfigName("commission")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/commission")
	// A missing config file is fine; defaults and env cover everything.
	_ = v.ReadInConfig()

	v.SetEnvPrefix("COMMISSION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.EncoderConfig.TimeKey = "ts"
	return cfg.Build()
}
