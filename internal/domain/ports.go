package domain

import (
	"context"

	"ibe_backend/internal/jsontree"
)

type ConfigurationRepository interface {
	// Save inserts or replaces the blob with cfg.ID.
	Save(ctx context.Context, cfg Configuration) (Configuration, error)
	// FindByID returns ErrNotFound when no blob has this id.
	FindByID(ctx context.Context, id int64) (Configuration, error)
}

// PricingSource is the upstream GraphQL service. Results are raw trees; shape
// checks happen in the mappers.
type PricingSource interface {
	FetchRoomRates(ctx context.Context, propertyID int64) (jsontree.Node, error)
	FetchProperties(ctx context.Context, tenantID int64) (jsontree.Node, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
