// Command worker consumes unlock events from RabbitMQ and appends them to
// <EVENTS_LOG_DIR>/achievements.log.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/iliyamo/achievement-registry/internal/config"
	"github.com/iliyamo/achievement-registry/internal/logger"
	"github.com/iliyamo/achievement-registry/internal/queue"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ev := config.LoadEventsConfig()
	c := &queue.Consumer{URL: ev.URL, Queue: ev.Queue, LogDir: ev.LogDir, Log: log.Named("worker")}
	log.Info("consuming unlock events", zap.String("queue", ev.Queue), zap.String("log_dir", ev.LogDir))
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("worker stopped", zap.Error(err))
	}
	log.Info("worker stopped")
}
