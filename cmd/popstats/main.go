// Command popstats prints country population totals and the location breakdown.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/popstats/backend/internal/bootstrap"
	"github.com/popstats/backend/internal/infrastructure/config"
	"github.com/popstats/backend/internal/infrastructure/logger"
	"github.com/popstats/backend/internal/interfaces/console"
)

const failureMessage = "An error occurred while running the population aggregation."

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	// Logs go to stderr unless configured otherwise so stdout carries only the report
	output := cfg.Log.Output
	if output == "stdout" {
		output = "stderr"
	}
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Error(failureMessage, zap.Error(err))
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = rt.Shutdown(shutdownCtx)
	}()

	ctx, runLog := logger.WithRunID(ctx, rt.Logger)
	runLog.Info("Population aggregation started", zap.String("env", cfg.App.Env))

	runner := console.NewRunner(rt.Aggregator, os.Stdout, console.WithLogger(runLog))
	if err := runner.Run(ctx); err != nil {
		runLog.Error(failureMessage, zap.Error(err))
		return 1
	}

	runLog.Info("Population aggregation finished")
	return 0
}
