package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/achievement-registry/internal/achievement"
	"github.com/iliyamo/achievement-registry/internal/config"
	"github.com/iliyamo/achievement-registry/internal/handler"
	"github.com/iliyamo/achievement-registry/internal/logger"
	"github.com/iliyamo/achievement-registry/internal/middleware"
	"github.com/iliyamo/achievement-registry/internal/router"
	"github.com/iliyamo/achievement-registry/internal/service"
	"github.com/iliyamo/achievement-registry/internal/web"
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

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}

	var pub handler.EventPublisher = service.NopPublisher{}
	if ev := config.LoadEventsConfig(); ev.Enabled {
		pub = service.NewAMQPPublisher(ev.URL, ev.Queue, log.Named("events"))
		log.Info("unlock events enabled", zap.String("queue", ev.Queue))
	}
	h := handler.NewAchievementHandler(achievement.NewRegistry(), pub, log)

	cacheCfg := config.LoadCacheConfig()
	rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
	if err != nil {
		if cacheCfg.Enabled {
			log.Warn("redis unavailable; landing page cache disabled", zap.Error(err))
		}
	} else {
		defer func() { _ = rdb.Close() }()
	}

	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.Debug
	e.Renderer = renderer
	e.Use(echomw.Recover())
	e.Use(logger.RequestLogger(log))
	router.RegisterRoutes(e, h, middleware.ResponseCache(cacheCfg, rdb, log))

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
		errc <- e.Start(cfg.Addr())
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	err = e.Shutdown(shutdownCtx)
	h.Wait()
	return err
}
