package app

import (
	"strconv"

	"github.com/rs/zerolog/log"

	"ibe_backend/internal/adapters/observability"
	"ibe_backend/internal/domain"
	"ibe_backend/internal/jsontree"
)

/********** room rates **********/

// flattenRoomRates walks data.listProperties[*].room_type[*].room_rates[*].room_rate
// and emits one flat object per leaf. Missing fields become ""/0 and the rate
// is truncated to a whole number here. Objects along the path are walked by
// their member values.
func flattenRoomRates(root jsontree.Node) jsontree.Node {
	out := []jsontree.Node{}
	for _, property := range root.Path("data", "listProperties").Items() {
		for _, roomType := range property.Get("room_type").Items() {
			for _, roomRate := range roomType.Get("room_rates").Items() {
				rate := roomRate.Get("room_rate")
				out = append(out, jsontree.NewObject(map[string]jsontree.Node{
					"date":               jsontree.NewString(rate.Get("date").Text()),
					"basic_nightly_rate": jsontree.NewInt(nightlyRate(rate.Get("basic_nightly_rate"))),
					"room_rate_id":       jsontree.NewInt(rate.Get("room_rate_id").Int()),
				}))
			}
		}
	}
	return jsontree.NewArray(out)
}

// nightlyRate never goes below zero; a negative upstream rate is treated like a
// missing one.
func nightlyRate(n jsontree.Node) int64 {
	v := n.Int()
	if v < 0 {
		log.Warn().Str("rate", n.Text()).Msg("negative nightly rate, using 0")
		observability.ObserveMalformed("room_rate")
		return 0
	}
	return v
}

// ParseRoomRates reads a flattened rate list. Anything other than an array is
// logged and treated as "no rates".
func ParseRoomRates(flat jsontree.Node) []domain.RateRecord {
	if !flat.IsArray() {
		log.Warn().Str("kind", flat.Kind().String()).Msg("room rates payload is not an array, ignoring it")
		observability.ObserveMalformed("room_rates")
		return []domain.RateRecord{}
	}
	out := make([]domain.RateRecord, 0, flat.Len())
	for _, n := range flat.Items() {
		out = append(out, domain.RateRecord{
			Date:        n.Get("date").Text(),
			NightlyRate: n.Get("basic_nightly_rate").Float(),
			RateID:      n.Get("room_rate_id").Int(),
		})
	}
	return out
}

// ParseRoomRatesJSON is ParseRoomRates for serialized payloads; undecodable
// input is tolerated the same way.
func ParseRoomRatesJSON(b []byte) []domain.RateRecord {
	flat, err := jsontree.Parse(b)
	if err != nil {
		log.Warn().Err(err).Msg("room rates payload is not valid JSON, ignoring it")
		observability.ObserveMalformed("room_rates")
		return []domain.RateRecord{}
	}
	return ParseRoomRates(flat)
}

func NormalizeRoomRates(root jsontree.Node) []domain.RateRecord {
	return ParseRoomRates(flattenRoomRates(root))
}

/********** properties **********/

// mapPropertySummaries reads data.listProperties[*]. The tenant id always comes
// from the caller, never from the payload.
func mapPropertySummaries(root jsontree.Node, tenantID int64) []domain.PropertySummary {
	nodes := root.Path("data", "listProperties").Items()
	out := make([]domain.PropertySummary, 0, len(nodes))
	tenant := strconv.FormatInt(tenantID, 10)
	for _, n := range nodes {
		out = append(out, domain.PropertySummary{
			PropertyID:   n.Get("property_id").Int(),
			TenantID:     tenant,
			PropertyName: n.Get("property_name").Text(),
		})
	}
	return out
}
