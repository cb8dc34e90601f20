// internal/adapters/graphql/client.go
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ibe_backend/internal/adapters/observability"
	"ibe_backend/internal/domain"
	"ibe_backend/internal/jsontree"
)

const (
	roomRatesQuery  = `query RoomRates($propertyId: Int) { listProperties(where: {property_id: {equals: $propertyId}}) { room_type { room_rates { room_rate { basic_nightly_rate date room_rate_id } } } } }`
	propertiesQuery = `query Properties($tenantId: Int) { listProperties(where: {tenant_id: {equals: $tenantId}}) { property_id property_name tenant_id } }`
)

// Client talks to the upstream pricing service. It is safe for concurrent use.
type Client struct {
	base string
	hc   *http.Client
	key  string
}

var _ domain.PricingSource = (*Client)(nil)

func New(base, key string, hc *http.Client) (*Client, error) {
	if strings.TrimSpace(base) == "" {
		return nil, fmt.Errorf("graphql: base URL is required")
	}
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{base: base, hc: hc, key: key}, nil
}

// ---- Public API ----

func (c *Client) FetchRoomRates(ctx context.Context, propertyID int64) (jsontree.Node, error) {
	return c.do(ctx, "roomRates", request{
		Query:     roomRatesQuery,
		Variables: map[string]any{"propertyId": propertyID},
	})
}

func (c *Client) FetchProperties(ctx context.Context, tenantID int64) (jsontree.Node, error) {
	return c.do(ctx, "properties", request{
		Query:     propertiesQuery,
		Variables: map[string]any{"tenantId": tenantID},
	})
}

// ---- Internals ----

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// do sends a single POST; there is no retry.
func (c *Client) do(ctx context.Context, endpoint string, body request) (jsontree.Node, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return jsontree.Node{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base, bytes.NewReader(payload))
	if err != nil {
		return jsontree.Node{}, fmt.Errorf("%w: build request: %v", domain.ErrUpstreamTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ibe-backend/1.0")
	if c.key != "" {
		req.Header.Set("x-api-key", c.key)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("graphql", endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return jsontree.Node{}, fmt.Errorf("%w: %v", domain.ErrUpstreamTransport, ctx.Err())
		}
		return jsontree.Node{}, fmt.Errorf("%w: %v", domain.ErrUpstreamTransport, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("graphql", endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return jsontree.Node{}, fmt.Errorf("%w: status %d: %s", domain.ErrUpstreamTransport, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return jsontree.Node{}, fmt.Errorf("%w: read body: %v", domain.ErrUpstreamTransport, err)
	}
	tree, err := jsontree.Parse(raw)
	if err != nil {
		return jsontree.Node{}, fmt.Errorf("%w: decode body: %v", domain.ErrUpstreamTransport, err)
	}
	return tree, nil
}
