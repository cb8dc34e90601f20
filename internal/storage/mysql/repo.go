package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"ibe_backend/internal/domain"
)

type Repo struct{ db *sql.DB }

var _ domain.ConfigurationRepository = (*Repo)(nil)

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Open connects with the go-sql-driver DSN and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

func (r *Repo) Save(ctx context.Context, cfg domain.Configuration) (domain.Configuration, error) {
	if _, err := r.db.ExecContext(ctx, upsertConfigurationSQL, cfg.ID, string(cfg.Data)); err != nil {
		return domain.Configuration{}, fmt.Errorf("save configuration %d: %w", cfg.ID, err)
	}
	return cfg, nil
}

func (r *Repo) FindByID(ctx context.Context, id int64) (domain.Configuration, error) {
	var (
		cfg  domain.Configuration
		data []byte
	)
	if err := r.db.QueryRowContext(ctx, getConfigurationSQL, id).Scan(&cfg.ID, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Configuration{}, domain.ErrNotFound
		}
		return domain.Configuration{}, fmt.Errorf("get configuration %d: %w", id, err)
	}
	cfg.Data = json.RawMessage(data)
	return cfg, nil
}

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }
