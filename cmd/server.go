//go:build !integration

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bitbucket.org/crgw/agent-portal/internal/config"
	"bitbucket.org/crgw/agent-portal/internal/portal/factory"
	"bitbucket.org/crgw/agent-portal/internal/tools/client"
	"bitbucket.org/crgw/agent-portal/internal/tools/client/bookingservice"
	"bitbucket.org/crgw/agent-portal/internal/tools/kvstore"
	"bitbucket.org/crgw/agent-portal/internal/tools/logger"
	"bitbucket.org/crgw/agent-portal/internal/tools/redisfactory"
	"bitbucket.org/crgw/agent-portal/internal/web"
	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

func serverApp(httpServer *http.Server, logger *zerolog.Logger) int {
	shutdown := false
	done := make(chan error, 1)
	stop := make(chan os.Signal, 1)
	go func() {
		logger.
			Info().
			Msg("Listening on address " + httpServer.Addr)
		done <- httpServer.ListenAndServe()
	}()
	go func() {
		// Wait for stop
		<-stop
		shutdown = true
		logger.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(ctx)
	}()

	// Notify stop channel if SIGINT or SIGTERM is received
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	err := <-done
	if err != nil && !shutdown {
		logger.
			Error().
			Err(err).
			Msg("Server failed")
		return 1
	}
	return 0
}

func newRelicApp(cfg *config.Config, log *zerolog.Logger) *newrelic.Application {
	if !cfg.NewRelic.Enabled || cfg.NewRelic.LicenseKey == "" {
		return nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.NewRelic.AppName),
		newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		log.Warn().Err(err).Msg("Unable to start New Relic, continuing without it")
		return nil
	}

	log.Info().Str("app", cfg.NewRelic.AppName).Msg("New Relic enabled")
	return app
}

func storageEngine(cfg *config.Config, app *newrelic.Application, log *zerolog.Logger) (kvstore.Engine, func(), error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warn().Msg("Using in-memory storage, portal data is lost on restart")
		return kvstore.NewMemory(), func() {}, nil
	}

	redisFactory, err := redisfactory.New(cfg.Storage.RedisURI, app)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisFactory.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Portal redis is not reachable yet")
	}

	return kvstore.NewRedis(redisFactory.PortalClient()), func() { _ = redisFactory.Close() }, nil
}

func run() int {
	_ = godotenv.Load(".env")

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return 1
	}

	app := newRelicApp(cfg, log)
	if app != nil {
		defer app.Shutdown(5 * time.Second)
	}

	engine, closeEngine, err := storageEngine(cfg, app, log)
	if err != nil {
		log.Error().Err(err).Msg("Unable to set up storage")
		return 1
	}
	defer closeEngine()

	bookingClient, err := bookingservice.NewClient(
		client.WithBaseURL(cfg.BookingService.URL),
		client.WithTimeout(cfg.BookingService.Timeout),
	)
	if err != nil {
		log.Error().Err(err).Msg("Unable to set up booking service client")
		return 1
	}

	appRouter := web.SetupRouter(log, web.RouterDeps{
		Factory: factory.NewFactory(factory.Options{
			Engine:         engine,
			BookingClient:  bookingClient,
			BookingTimeout: cfg.BookingService.Timeout,
			Location:       cfg.Location(),
		}),
		NewRelicApp: app,
		Production:  cfg.Env == "production",
	})

	var host string
	if cfg.Test {
		host = "localhost"
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", host, cfg.Port),
		Handler:           appRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return serverApp(httpServer, log)
}

func main() {
	os.Exit(run())
}
