package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fyne.io/fyne/v2/app"
	"github.com/joho/godotenv"

	"github.com/Parsherm/country-finder/internal/cache"
	"github.com/Parsherm/country-finder/internal/client"
	"github.com/Parsherm/country-finder/internal/config"
	"github.com/Parsherm/country-finder/internal/logger"
	"github.com/Parsherm/country-finder/internal/redisserver"
	"github.com/Parsherm/country-finder/internal/service"
	"github.com/Parsherm/country-finder/internal/ui"
)

func main() {
	// The main function is just a thin wrapper around run().
	if err := run(context.Background()); err != nil {
		logger.Get().Error("country finder failed", "error", err)
		os.Exit(1)
	}
}

// run wires the cache, client, service and window together and runs the
// event loop until the window closes or a shutdown signal arrives.
func run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	envLoaded := godotenv.Load() == nil
	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	log := logger.WithComponent("main")
	if !envLoaded {
		log.Info("no .env file found, using system environment")
	}

	if cfg.ManageRedis {
		srv, err := redisserver.Start(ctx, redisserver.Options{
			Path:         cfg.RedisServerPath,
			Addr:         cfg.RedisAddr,
			StartTimeout: cfg.RedisStartWait,
		})
		if err != nil {
			// Not fatal: newCache falls back to the in-process cache.
			log.Warn("could not start local redis-server", "error", err)
		} else {
			defer func() {
				if err := srv.Stop(); err != nil {
					log.Warn("failed to stop redis-server", "error", err)
				}
			}()
		}
	}

	store := newCache(ctx, cfg)
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	apiClient := client.NewRestCountriesClient(cfg.HTTPTimeout)
	apiClient.BaseURL = cfg.APIBaseURL
	lookup := service.New(store, apiClient, cfg.CacheTTL)

	a := app.New()
	window := ui.New(a, lookup, apiClient)

	// Close the window when a shutdown signal arrives so the deferred
	// redis-server stop still runs.
	go func() {
		<-ctx.Done()
		a.Quit()
	}()

	window.ShowAndRun()
	log.Info("window closed, shutting down")
	return nil
}

// newCache prefers the Redis store and falls back to the in-process cache
// when the server is unreachable, so lookups keep their caching semantics
// either way.
func newCache(ctx context.Context, cfg *config.Config) cache.Cache {
	log := logger.WithComponent("main")

	r := cache.NewRedis(cfg.RedisAddr, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := r.Ping(pingCtx); err == nil {
		log.Info("using redis cache", "addr", cfg.RedisAddr)
		return r
	} else {
		log.Warn("redis unreachable, using in-memory cache", "addr", cfg.RedisAddr, "error", err)
		_ = r.Close()
	}

	mem, err := cache.NewMemory(cfg.CacheTTL)
	if err != nil {
		// Only reachable with a broken ristretto config; the service
		// tolerates a failing cache, so hand back the redis client anyway.
		log.Warn("in-memory cache unavailable", "error", err)
		return cache.NewRedis(cfg.RedisAddr, cfg.RedisDB)
	}
	return mem
}
