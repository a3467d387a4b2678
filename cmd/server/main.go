package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/ticket-booking/internal/config"
	"github.com/iliyamo/ticket-booking/internal/database"
	"github.com/iliyamo/ticket-booking/internal/handler"
	"github.com/iliyamo/ticket-booking/internal/metrics"
	"github.com/iliyamo/ticket-booking/internal/middleware"
	"github.com/iliyamo/ticket-booking/internal/queue"
	"github.com/iliyamo/ticket-booking/internal/repository"
	"github.com/iliyamo/ticket-booking/internal/router"
	"github.com/iliyamo/ticket-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional
	cfg := config.Load()

	logger := log.New("tickets")
	logger.SetLevel(parseLevel(cfg.LogLevel))
	logger.SetHeader("${time_rfc3339} ${level} ${prefix}")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	rdb := config.NewRedisClient(ctx, config.LoadRedisConfig())
	if rdb == nil {
		logger.Warn("redis unavailable: response cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	var db *sql.DB
	var events *repository.EventRepo
	if cfg.DBEnabled {
		var err error
		db, err = database.Open(ctx, cfg)
		if err != nil {
			logger.Fatalf("database: %v", err)
		}
		defer db.Close()
		events = repository.NewEventRepo(db)
		if err := events.EnsureSchema(ctx); err != nil {
			logger.Fatalf("database: ensure schema: %v", err)
		}
	}

	evCfg := config.LoadEventsConfig()
	var publisher handler.EventPublisher = service.NopPublisher{}
	if evCfg.Enabled {
		publisher = service.NewAMQPPublisher(evCfg, logger)
		consumer := &queue.Consumer{
			URL:    evCfg.URL,
			Queue:  evCfg.Queue,
			LogDir: evCfg.LogDir,
			Log:    logger,
		}
		if events != nil {
			consumer.Store = events
		}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("rabbitmq: consumer stopped: %v", err)
			}
		}()
	}

	registry := service.NewRegistry(
		service.WithLogger(logger),
		service.WithCountsObserver(metrics.SetSectionCounts),
	)
	auth := router.Auth{Enabled: cfg.AuthEnabled, JWTSecret: cfg.JWTSecret}

	router.RegisterRoutes(e)
	router.RegisterTickets(e, handler.NewTicketHandler(registry, publisher), auth,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	)
	if events != nil {
		router.RegisterAdmin(e, handler.NewAdminHandler(events), auth)
	}

	addr := ":" + cfg.Port
	go func() {
		logger.Infof("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server: shutdown: %v", err)
		os.Exit(1)
	}
}

// parseLevel maps LOG_LEVEL onto gommon levels; unknown values mean info.
func parseLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
