package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"ibe_backend/internal/adapters/graphql"
	server "ibe_backend/internal/adapters/http_server"
	"ibe_backend/internal/adapters/observability"
	redisad "ibe_backend/internal/adapters/redis"
	"ibe_backend/internal/app"
	"ibe_backend/internal/domain"
	"ibe_backend/internal/shared"
	mongorepo "ibe_backend/internal/storage/mongo"
	mysqlrepo "ibe_backend/internal/storage/mysql"
)

const shutdownGrace = 10 * time.Second

// store is a configuration repository that can also report its health.
type store interface {
	domain.ConfigurationRepository
	Ping(ctx context.Context) error
}

func openStore(ctx context.Context, cfg shared.Config) (store, func(), error) {
	switch cfg.Store.Driver {
	case "mongo":
		client, err := mongorepo.Connect(ctx, cfg.Store.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		return mongorepo.New(client.Database(cfg.Store.MongoDatabase)), closeFn, nil
	default:
		db, err := mysqlrepo.Open(ctx, cfg.Store.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		return mysqlrepo.New(db), func() { _ = db.Close() }, nil
	}
}

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// store
	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("store connection failed")
	}
	defer closeStore()
	log.Info().Str("driver", cfg.Store.Driver).Msg("store connection ok")

	// optional rates cache; a nil interface means no caching
	var cache domain.Cache
	if cfg.Cache.Enabled {
		rc := redisad.New(cfg.Cache.RedisAddr, cfg.Cache.RedisPass, cfg.Cache.RedisDB)
		defer func() { _ = rc.Close() }()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis not reachable, rates cache disabled")
		} else {
			cache = rc
		}
	}

	// upstream
	upstream, err := graphql.New(cfg.Upstream.BaseURL, cfg.Upstream.APIKey, &http.Client{Timeout: cfg.Upstream.Timeout})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize upstream client")
	}

	// http
	reg := observability.InitRegistry()
	srv := server.New(server.Options{
		RequestTimeout: cfg.HTTP.RequestTimeout,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Config:     app.NewConfigurationService(repo),
		Properties: app.NewPropertyService(upstream, cache, cfg.Cache.TTL),
		Links:      server.BlobLinks{En: cfg.BlobStorage.LinkEn, De: cfg.BlobStorage.LinkDe},
		Ping:       repo.Ping,
	})

	servers := []*http.Server{{
		Addr:              cfg.HTTP.Addr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}}
	if cfg.Metrics.Addr != "" {
		servers = append(servers, observability.Serve(cfg.Metrics.Addr, reg))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		s := s
		g.Go(func() error {
			log.Info().Str("addr", s.Addr).Msg("listening")
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		for _, s := range servers {
			if err := s.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Str("addr", s.Addr).Msg("shutdown")
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("http server failed")
		return
	}
	log.Info().Msg("stopped")
}
