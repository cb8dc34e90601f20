// Command configctl upserts configuration blobs from JSON files, e.g.
//
//	configctl -f tenant1.json -f tenant2.json
//
// Each file holds one {"id": ..., "data": {...}} document.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"ibe_backend/internal/adapters/observability"
	"ibe_backend/internal/app"
	"ibe_backend/internal/domain"
	"ibe_backend/internal/shared"
	mongorepo "ibe_backend/internal/storage/mongo"
	mysqlrepo "ibe_backend/internal/storage/mysql"
)

type fileList []string

func (f *fileList) String() string     { return strings.Join(*f, ",") }
func (f *fileList) Set(v string) error { *f = append(*f, v); return nil }

func readConfiguration(path string) (domain.Configuration, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Configuration{}, err
	}
	var cfg domain.Configuration
	if err := json.Unmarshal(b, &cfg); err != nil {
		return domain.Configuration{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func openRepo(ctx context.Context, cfg shared.Config) (domain.ConfigurationRepository, func(), error) {
	if cfg.Store.Driver == "mongo" {
		client, err := mongorepo.Connect(ctx, cfg.Store.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		return mongorepo.New(client.Database(cfg.Store.MongoDatabase)), func() { _ = client.Disconnect(context.Background()) }, nil
	}
	db, err := mysqlrepo.Open(ctx, cfg.Store.MySQLDSN)
	if err != nil {
		return nil, nil, err
	}
	return mysqlrepo.New(db), func() { _ = db.Close() }, nil
}

func main() {
	var files fileList
	flag.Var(&files, "f", "configuration file to upsert (repeatable)")
	workers := flag.Int("workers", 4, "parallel upserts")
	flag.Parse()

	ctx := context.Background()
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if len(files) == 0 {
		log.Fatal().Msg("no files given, use -f")
	}
	log.Info().Int("files", len(files)).Int("workers", *workers).Str("driver", cfg.Store.Driver).Msg("configctl starting")

	repo, closeRepo, err := openRepo(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("store connection failed")
	}
	defer closeRepo()

	svc := app.NewConfigurationService(repo)
	sem := semaphore.NewWeighted(int64(*workers))
	var (
		wg     sync.WaitGroup
		failed atomic.Int32
	)

	for _, path := range files {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer sem.Release(1)

			c, err := readConfiguration(path)
			if err == nil {
				_, err = svc.Save(ctx, c)
			}
			if err != nil {
				failed.Add(1)
				log.Warn().Str("file", path).Err(err).Msg("upsert failed")
				return
			}
			log.Info().Str("file", path).Int64("id", c.ID).Msg("upsert ok")
		}(path)
	}

	wg.Wait()
	if n := failed.Load(); n > 0 {
		closeRepo()
		log.Fatal().Int32("failed", n).Msg("configctl finished with errors")
	}
	log.Info().Msg("configctl completed")
}
