// Command worker runs the background reconciliation loop. It shares the
// store with the API server but no process state, so any number of server
// replicas can run next to a single worker.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/learnloop/learnloop-hub/config"
	"github.com/learnloop/learnloop-hub/internal/application/command"
	"github.com/learnloop/learnloop-hub/internal/application/eventhandler"
	"github.com/learnloop/learnloop-hub/internal/infrastructure/messaging"
	"github.com/learnloop/learnloop-hub/internal/infrastructure/persistence/postgres"
	"github.com/learnloop/learnloop-hub/internal/infrastructure/worker"
	"github.com/learnloop/learnloop-hub/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LoggerMode())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := postgres.NewConnection(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer conn.Close()

	users := postgres.NewUserRepository(conn)
	achievements := postgres.NewAchievementRepository(conn)
	sessions := postgres.NewSessionRepository(conn)

	bus := messaging.NewInMemoryEventBus(log)
	eventhandler.NewOnAchievementUnlocked(log).Register(bus)

	ledger := command.NewProgressLedger(users, sessions, achievements, bus, log)

	reconciler := worker.NewReconciler(
		sessions,
		ledger,
		cfg.Worker.ReconcileInterval,
		cfg.Worker.ReconcileBatchSize,
		log,
	)
	if err := reconciler.Start(); err != nil {
		return fmt.Errorf("start reconciler: %w", err)
	}

	<-ctx.Done()
	log.Info("shutdown signal received")
	reconciler.Stop()
	return nil
}
