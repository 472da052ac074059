package main

import (
	"chat-feed/internal"
	"chat-feed/moderation"
	"chat-feed/observability"
	"chat-feed/projection"
	"chat-feed/runtime/workers"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chat-feed terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires the session and blocks until a signal arrives.
// Returning instead of exiting lets every defer run before the process stops.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	config, err := internal.LoadConfig()
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Filter rules
	initial := moderation.Rules{}
	if config.RulesFile != "" {
		if initial, err = moderation.LoadRules(config.RulesFile); err != nil {
			return exitConfig, fmt.Errorf("rules error: %w", err)
		}
	}
	rules, err := moderation.NewRuleSet(initial)
	if err != nil {
		return exitConfig, err
	}

	// 3. Container & metrics
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	container := projection.New(rules, log, projection.WithObserver(metrics))
	log.Info("Message container ready", "session", container.ID())

	// 4. Workers
	deliveries := make(chan workers.Delivery, config.BufferSize)
	changes := make(chan moderation.Rules, 1)
	activity := workers.NewActivityWorker(container, config.ActivityWindow, config.ActivityInterval, log)

	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewReplayWorker(config.ReplayFile, config.ReplayDelay, deliveries, log),
		workers.NewIngestionWorker(container, deliveries, log),
		activity,
		workers.NewReporterWorker(container, activity, os.Stdout, config.ReportInterval, config.ReportRows, log),
		workers.NewChannelCapacityWorker([]workers.NamedChannel{
			{Name: "deliveries", Channel: deliveries},
			{Name: "rule_changes", Channel: changes},
		}, metrics, config.MetricInterval, log),
	)
	if config.RulesFile != "" {
		sup.Add(
			workers.NewRulesWatcher(config.RulesFile, rules.Rules(), changes, log),
			workers.NewRulesWorker(rules, container, changes, log),
		)
	}

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Run workers and debug server until a signal or a server failure
	server := internal.NewDebugServer(config.DebugAddr, container, registry, log)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sup.Run(gCtx)
		return nil
	})
	g.Go(func() error {
		log.Info("Starting debug server", "address", config.DebugAddr, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("debug server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info("Shutting down gracefully...")
		sup.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return exitRuntime, err
	}
	log.Info("Program stopped cleanly")
	return exitOK, nil
}
