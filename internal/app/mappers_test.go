package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ibe_backend/internal/domain"
	"ibe_backend/internal/jsontree"
)

const ratesPayload = `{
  "data": {
    "listProperties": [
      {
        "room_type": [
          {"room_rates": [
            {"room_rate": {"date": "2024-03-01T00:00:00.000Z", "basic_nightly_rate": 100.9, "room_rate_id": 1}},
            {"room_rate": {"date": "2024-03-02T00:00:00.000Z", "basic_nightly_rate": "120", "room_rate_id": 2}}
          ]},
          {"room_rates": [
            {"room_rate": {"date": "2024-03-01T00:00:00.000Z"}},
            {"other": true}
          ]},
          {"no_rates_here": 1}
        ]
      },
      {"room_type": null}
    ]
  }
}`

func mustParse(t *testing.T, s string) jsontree.Node {
	t.Helper()
	n, err := jsontree.Parse([]byte(s))
	require.NoError(t, err)
	return n
}

func TestNormalizeRoomRates_LenientDefaults(t *testing.T) {
	got := NormalizeRoomRates(mustParse(t, ratesPayload))
	assert.Equal(t, []domain.RateRecord{
		{Date: "2024-03-01T00:00:00.000Z", NightlyRate: 100, RateID: 1},
		{Date: "2024-03-02T00:00:00.000Z", NightlyRate: 120, RateID: 2},
		{Date: "2024-03-01T00:00:00.000Z", NightlyRate: 0, RateID: 0},
		{Date: "", NightlyRate: 0, RateID: 0},
	}, got)
}

func TestNormalizeRoomRates_MissingShapeIsEmpty(t *testing.T) {
	for _, s := range []string{`{}`, `{"data": null}`, `{"errors": [{"message": "boom"}]}`, `[]`, `42`} {
		got := NormalizeRoomRates(mustParse(t, s))
		assert.NotNil(t, got, s)
		assert.Empty(t, got, s)
	}
}

func TestParseRoomRatesJSON_NotAnArray(t *testing.T) {
	assert.Empty(t, ParseRoomRatesJSON([]byte(`{"date": "2024-03-01"}`)))
	assert.Empty(t, ParseRoomRatesJSON([]byte(`not json`)))
}

func TestParseRoomRatesJSON_FlatList(t *testing.T) {
	got := ParseRoomRatesJSON([]byte(`[{"date":"2024-03-01","basic_nightly_rate":99,"room_rate_id":4}]`))
	assert.Equal(t, []domain.RateRecord{{Date: "2024-03-01", NightlyRate: 99, RateID: 4}}, got)
}

func TestFlattenRoomRates_SerializesTruncatedRates(t *testing.T) {
	flat := flattenRoomRates(mustParse(t, ratesPayload))
	b, err := flat.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, 4, flat.Len())
	assert.Contains(t, string(b), `"basic_nightly_rate":100`)
	assert.NotContains(t, string(b), "100.9")
}

func TestMapPropertySummaries_TenantFromCaller(t *testing.T) {
	root := mustParse(t, `{"data":{"listProperties":[
		{"property_id": 9, "property_name": "Sea View", "tenant_id": 555},
		{"property_name": "No Id"}
	]}}`)
	got := mapPropertySummaries(root, 3)
	assert.Equal(t, []domain.PropertySummary{
		{PropertyID: 9, TenantID: "3", PropertyName: "Sea View"},
		{PropertyID: 0, TenantID: "3", PropertyName: "No Id"},
	}, got)
}

func TestNormalizeRoomRates_OutOfRangeRatesStayNonNegative(t *testing.T) {
	root := mustParse(t, `{"data":{"listProperties":[{"room_type":[{"room_rates":[
		{"room_rate":{"date":"2024-03-01T00:00:00.000Z","basic_nightly_rate":100}},
		{"room_rate":{"date":"2024-03-01T00:00:00.000Z","basic_nightly_rate":1e30}},
		{"room_rate":{"date":"2024-03-02T00:00:00.000Z","basic_nightly_rate":120}},
		{"room_rate":{"date":"2024-03-02T00:00:00.000Z","basic_nightly_rate":"NaN"}},
		{"room_rate":{"date":"2024-03-03T00:00:00.000Z","basic_nightly_rate":"-1e30"}},
		{"room_rate":{"date":"2024-03-03T00:00:00.000Z","basic_nightly_rate":-5}},
		{"room_rate":{"date":"2024-03-04T00:00:00.000Z","basic_nightly_rate":"Infinity"}}
	]}]}]}}`)

	got, err := MinimumNightRates(NormalizeRoomRates(root), domain.DateRange{Start: day("2024-03-01"), End: day("2024-03-04")})
	require.NoError(t, err)
	assert.Equal(t, domain.MinRateMap{
		day("2024-03-01"): 100,
		day("2024-03-02"): 0,
		day("2024-03-03"): 0,
		day("2024-03-04"): 0,
	}, got)
	for d, rate := range got {
		assert.GreaterOrEqualf(t, rate, 0.0, "negative minimum on %s", d)
	}
}

func TestFlattenRoomRates_WalksObjectValues(t *testing.T) {
	root := mustParse(t, `{"data":{"listProperties":{"p1":{"room_type":{"standard":{"room_rates":[
		{"room_rate":{"date":"2024-03-01","basic_nightly_rate":80,"room_rate_id":5}}
	]}}}}}}`)
	assert.Equal(t, []domain.RateRecord{{Date: "2024-03-01", NightlyRate: 80, RateID: 5}}, NormalizeRoomRates(root))
}
