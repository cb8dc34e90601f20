package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"ibe_backend/internal/domain"
)

// PropertyService answers rate-calendar and tenant directory questions from
// the upstream pricing source.
type PropertyService struct {
	source   domain.PricingSource
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewPropertyService wires the pricing source. cache may be nil, which means
// every call goes upstream.
func NewPropertyService(src domain.PricingSource, cache domain.Cache, ttl time.Duration) *PropertyService {
	return &PropertyService{source: src, cache: cache, cacheTTL: ttl}
}

func (s *PropertyService) MinimumNightRate(ctx context.Context, propertyID int64, rng domain.DateRange) (domain.MinRateMap, error) {
	records, err := s.roomRates(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return MinimumNightRates(records, rng)
}

func (s *PropertyService) ListProperties(ctx context.Context, tenantID int64) ([]domain.PropertySummary, error) {
	tree, err := s.source.FetchProperties(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("fetch properties for tenant %d: %w", tenantID, err)
	}
	return mapPropertySummaries(tree, tenantID), nil
}

func (s *PropertyService) roomRates(ctx context.Context, propertyID int64) ([]domain.RateRecord, error) {
	key := fmt.Sprintf("rates:%d", propertyID)
	if s.cache != nil {
		var raw json.RawMessage
		ok, err := s.cache.Get(ctx, key, &raw)
		switch {
		case err == nil && ok:
			return ParseRoomRatesJSON(raw), nil
		case errors.Is(err, domain.ErrCacheCorrupt):
			log.Warn().Err(err).Str("key", key).Msg("evicting corrupt rates cache entry")
			_ = s.cache.Del(ctx, key)
		case err != nil:
			log.Warn().Err(err).Str("key", key).Msg("rates cache read failed")
		}
	}

	tree, err := s.source.FetchRoomRates(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("fetch room rates for property %d: %w", propertyID, err)
	}
	flat := flattenRoomRates(tree)
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, flat, int(s.cacheTTL.Seconds()))
	}
	return ParseRoomRates(flat), nil
}
