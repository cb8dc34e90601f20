package app

import (
	"context"
	"encoding/json"
	"fmt"

	"ibe_backend/internal/domain"
)

type ConfigurationService struct {
	repo domain.ConfigurationRepository
}

func NewConfigurationService(r domain.ConfigurationRepository) *ConfigurationService {
	return &ConfigurationService{repo: r}
}

// Save stores cfg under cfg.ID, replacing any previous blob.
func (s *ConfigurationService) Save(ctx context.Context, cfg domain.Configuration) (domain.Configuration, error) {
	data, err := normalizeData(cfg.Data)
	if err != nil {
		return domain.Configuration{}, fmt.Errorf("configuration %d: %w", cfg.ID, err)
	}
	cfg.Data = data
	return s.repo.Save(ctx, cfg)
}

// Update replaces the data of an existing blob. Unknown ids yield domain.ErrNotFound.
func (s *ConfigurationService) Update(ctx context.Context, id int64, cfg domain.Configuration) (domain.Configuration, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Configuration{}, err
	}
	data, err := normalizeData(cfg.Data)
	if err != nil {
		return domain.Configuration{}, fmt.Errorf("configuration %d: %w", id, err)
	}
	existing.Data = data
	return s.repo.Save(ctx, existing)
}

// normalizeData turns a missing data field into JSON null; it does not look at the schema.
func normalizeData(b json.RawMessage) (json.RawMessage, error) {
	if len(b) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("data is not valid JSON")
	}
	return b, nil
}
