package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"shortlink/backend/internal/clock"
	"shortlink/backend/internal/config"
	"shortlink/backend/internal/db"
	"shortlink/backend/internal/handler"
	gh "shortlink/backend/internal/http"
	"shortlink/backend/internal/model"
	"shortlink/backend/internal/repository"
	"shortlink/backend/internal/service"
	"shortlink/backend/internal/service/geo"
	"shortlink/backend/internal/service/notify"
	"shortlink/backend/internal/service/ratelimit"
	"shortlink/backend/internal/worker"
	"shortlink/backend/pkg/logger"
	"shortlink/backend/pkg/network"
	"shortlink/backend/pkg/snowflake"
)

const (
	shutdownTimeout = 10 * time.Second
	devTokenTTL     = 24 * time.Hour
)

func main() {
	if err := run(); err != nil {
		logger.Error("server exited", "module", "server", "action", "run", "resource", "process", "result", "failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logger.Init(logger.ParseLevel(cfg.LogLevel))

	if err := snowflake.Init(cfg.NodeID); err != nil {
		return err
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	clk := clock.New()

	store, closeStore, err := newRateLimitStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	limiter := ratelimit.NewController(store, clk, ratelimit.DefaultPolicies(cfg)...)
	limiter.StartSweeper(cfg.SweepInterval)
	defer limiter.StopSweeper()

	notifier := notify.NewRegistry(cfg.TaskTimeout)
	dispatcher := worker.NewDispatcher(cfg.Workers, cfg.QueueSize, cfg.TaskTimeout)
	dispatcher.Start()

	links := repository.NewLinkRepository(database)
	clicks := repository.NewClickRepository(database)
	allocator := service.NewCodeAllocator(links, cfg.MaxAllocAttempts)
	linkService := service.NewLinkService(links, clicks, allocator, clk, cfg.BaseURL)
	resolver := service.NewResolver(links, clicks, newEnricher(cfg), notifier, dispatcher, clk)
	tokens := service.NewTokenService(cfg.JWTSecret, clk)
	if cfg.JWTSecret == "" {
		logger.Warn("no token secret configured, all links are anonymous", "module", "server", "action", "configure", "resource", "auth", "result", "disabled")
	}
	if cfg.DevOwnerID != "" {
		token, err := issueDevToken(tokens, cfg.DevOwnerID)
		if err != nil {
			return err
		}
		logger.Warn("development token issued", "module", "server", "action", "issue", "resource", "token", "result", "ok",
			"owner_id", cfg.DevOwnerID, "ttl", devTokenTTL.String(), "token", token)
	}

	e := gh.NewRouter(
		handler.NewHealthHandler(database),
		handler.NewLinkHandler(linkService),
		handler.NewRedirectHandler(resolver),
		handler.NewNotificationHandler(notifier, cfg.TaskTimeout),
		tokens,
		limiter,
		cfg.EnableSwagger,
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "module", "server", "action", "listen", "resource", "http", "result", "ok",
			"addr", cfg.Addr, "base_url", cfg.BaseURL, "db", describeDSN(cfg.DBPath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(srv, dispatcher, notifier)
	})
	return g.Wait()
}

func shutdown(srv *http.Server, dispatcher *worker.Dispatcher, notifier notify.Notifier) error {
	logger.Info("shutting down", "module", "server", "action", "shutdown", "resource", "process", "result", "started")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	notifier.Broadcast(ctx, model.NotificationMessage{
		Type:    model.NotificationSystem,
		Title:   "Server restarting",
		Message: "Reconnect shortly to keep receiving link activity",
	})
	notifier.CloseAll()

	var errs []error
	if err := srv.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := dispatcher.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// newRateLimitStore shares counters through Redis when configured, so limits
// hold across instances; otherwise they are process-local.
func newRateLimitStore(cfg config.Config) (ratelimit.Store, func(), error) {
	if cfg.RedisAddr == "" {
		return ratelimit.NewMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, err
	}
	logger.Info("rate limit store ready", "module", "server", "action", "configure", "resource", "ratelimit", "result", "ok", "backend", "redis", "addr", cfg.RedisAddr)
	return ratelimit.NewRedisStore(client, "shortlink:"), func() { _ = client.Close() }, nil
}

func newEnricher(cfg config.Config) geo.Enricher {
	if cfg.GeoProviderURL == "" {
		return geo.NewHeuristicEnricher()
	}
	var proxy network.ProxyProvider
	if cfg.ProxyURL != "" {
		proxy = network.StaticProxy(cfg.ProxyURL)
	}
	return geo.NewHTTPEnricher(cfg.GeoProviderURL, network.NewClientFactory(proxy), cfg.GeoTimeout, cfg.GeoRatePerMinute)
}

// issueDevToken signs a short-lived owner token for local testing of the
// owner routes. It needs a configured secret.
func issueDevToken(tokens service.TokenService, ownerID string) (string, error) {
	token, err := tokens.Issue(ownerID, devTokenTTL)
	if err != nil {
		return "", fmt.Errorf("issue development token: %w", err)
	}
	return token, nil
}

func describeDSN(dsn string) string {
	if config.IsRemoteDSN(dsn) {
		return "libsql"
	}
	return dsn
}

