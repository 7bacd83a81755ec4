package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/Vovarama1992/support-hub/internal/ai"
	"github.com/Vovarama1992/support-hub/internal/cache"
	"github.com/Vovarama1992/support-hub/internal/config"
	"github.com/Vovarama1992/support-hub/internal/logging"
	"github.com/Vovarama1992/support-hub/internal/metrics"
	"github.com/Vovarama1992/support-hub/internal/support"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to config yaml")
	dev := flag.Bool("dev", false, "development mode")
	flag.Parse()

	cfg, err := config.Load(*configPath, *dev)
	if err != nil {
		zlog.Error().Err(err).Msg("config")
		return 1
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)

	defaultMode, err := support.ParseMode(cfg.Session.DefaultMode)
	if err != nil {
		logger.Error().Err(err).Msg("session.default_mode")
		return 1
	}

	metrics.MustRegister()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Store ---
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Str("driver", cfg.Store.Driver).Msg("store init")
		return 1
	}
	defer closeStore()

	// --- Backend ---
	backend, creds := buildBackend(ctx, cfg, logger)

	svc := support.NewService(store, backend, creds, logger, support.Options{
		Timeout: cfg.AI.Timeout,
		Dev:     cfg.Runtime.Dev,
	})
	handler := support.NewHandler(svc, logger, defaultMode)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(support.RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	support.RegisterRoutes(r, handler)

	// --- health / metrics ---
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info().Str("port", cfg.Server.Port).Str("provider", cfg.AI.Provider).Msg("listening")
	if err := serve(ctx, srv); err != nil {
		logger.Error().Err(err).Msg("server error")
		return 1
	}
	return 0
}

// serve runs srv until ctx is done or the listener fails, then shuts it down.
func serve(ctx context.Context, srv *http.Server) error {
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (support.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverRedis:
		client, err := cache.NewClient(ctx, cache.Options{
			Addr:     cfg.Store.RedisURL,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return support.NewRedisStore(client, cfg.Store.TTL), func() { _ = client.Close() }, nil

	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			db.Close()
			return nil, nil, err
		}

		repo := support.NewRepo(db)
		if err := repo.EnsureSchema(pingCtx); err != nil {
			db.Close()
			return nil, nil, err
		}
		go purgeIdle(ctx, repo, cfg.Store.TTL, logger)
		return repo, func() { _ = db.Close() }, nil
	}

	mem := support.NewMemoryStore()
	go purgeIdle(ctx, mem, cfg.Store.TTL, logger)
	return mem, func() {}, nil
}

// idlePurger is implemented by stores without native expiry.
type idlePurger interface {
	PurgeIdle(context.Context, time.Duration) (int64, error)
}

func purgeIdle(ctx context.Context, repo idlePurger, ttl time.Duration, logger *zerolog.Logger) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.PurgeIdle(ctx, ttl)
			if err != nil {
				logger.Warn().Err(err).Msg("purge idle sessions")
				continue
			}
			if n > 0 {
				logger.Info().Int64("removed", n).Msg("purged idle sessions")
			}
		}
	}
}

// buildBackend returns the generation chain and, for real providers, the
// credential holder that POST /credentials writes to.
func buildBackend(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (ai.AI, support.Credentials) {
	if cfg.AI.Provider == config.ProviderNoop {
		return ai.NewObservedAI(ai.NewNoopClient(), cfg.AI.Provider, nil), nil
	}

	factory := func(ctx context.Context, key string) (ai.AI, error) {
		if cfg.AI.Provider == config.ProviderOpenAI {
			return ai.NewOpenAIClient(key, cfg.AI.BaseURL, cfg.AI.Model)
		}
		return ai.NewGeminiClient(ctx, key, cfg.AI.BaseURL, cfg.AI.Model)
	}

	var validate func(string) error
	if cfg.AI.Provider == config.ProviderGemini {
		validate = ai.ValidateGeminiKey
	}

	keyed := ai.NewKeyed(factory, validate)
	if cfg.AI.APIKey == "" {
		logger.Warn().Str("provider", cfg.AI.Provider).Msg("no API key configured; POST /credentials before chatting")
	} else if err := keyed.SetKey(ctx, cfg.AI.APIKey); err != nil {
		logger.Warn().Err(err).Str("provider", cfg.AI.Provider).Msg("configured API key rejected")
	}

	var tokens ai.TokenCounter
	if cfg.AI.CountTokens {
		tc, err := ai.NewTokenCounter("cl100k_base")
		if err != nil {
			logger.Warn().Err(err).Msg("token counting disabled")
		} else {
			tokens = tc
		}
	}

	limited := ai.NewLimitedAI(keyed, cfg.AI.ConcurrentLimit)
	return ai.NewObservedAI(limited, cfg.AI.Provider, tokens), keyed
}
