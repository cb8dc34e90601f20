package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"ibe_backend/internal/domain"
	"ibe_backend/internal/jsontree"
)

var emptyObject = json.RawMessage(`{}`)

func (s *ConfigurationService) Get(ctx context.Context, id int64) (domain.Configuration, error) {
	return s.repo.FindByID(ctx, id)
}

// GetProperty returns the global section (or {}) together with one property's
// section. A missing id, properties object or property key is domain.ErrNotFound.
func (s *ConfigurationService) GetProperty(ctx context.Context, id, propertyID int64) (domain.PropertyConfiguration, error) {
	data, err := s.load(ctx, id)
	if err != nil {
		return domain.PropertyConfiguration{}, err
	}
	props := data.Get("properties")
	if !props.IsObject() {
		return domain.PropertyConfiguration{}, fmt.Errorf("configuration %d has no properties: %w", id, domain.ErrNotFound)
	}
	property := props.Get(strconv.FormatInt(propertyID, 10))
	if !property.Exists() || property.IsNull() {
		return domain.PropertyConfiguration{}, fmt.Errorf("configuration %d property %d: %w", id, propertyID, domain.ErrNotFound)
	}
	return domain.PropertyConfiguration{Global: globalSection(data), Property: property.Raw()}, nil
}

// GetGlobal returns the global section, or {} when the blob has none.
func (s *ConfigurationService) GetGlobal(ctx context.Context, id int64) (json.RawMessage, error) {
	data, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return globalSection(data), nil
}

func (s *ConfigurationService) load(ctx context.Context, id int64) (jsontree.Node, error) {
	cfg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return jsontree.Node{}, err
	}
	data, err := jsontree.Parse(cfg.Data)
	if err != nil {
		return jsontree.Node{}, fmt.Errorf("configuration %d: decode data: %w", id, err)
	}
	return data, nil
}

func globalSection(data jsontree.Node) json.RawMessage {
	g := data.Get("global")
	if !g.Exists() || g.IsNull() {
		return emptyObject
	}
	return g.Raw()
}
