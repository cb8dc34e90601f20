package app

import (
	"fmt"

	"cloud.google.com/go/civil"

	"ibe_backend/internal/domain"
)

const isoDateLen = len("2006-01-02")

// MinimumNightRates keeps, for every date inside rng (both ends included), the
// lowest rate among records on that date. Dates without records are left out.
// An unparseable record date fails the whole reduction.
func MinimumNightRates(records []domain.RateRecord, rng domain.DateRange) (domain.MinRateMap, error) {
	out := domain.MinRateMap{}
	if rng.Inverted() {
		return out, nil
	}
	for _, r := range records {
		d, err := recordDate(r.Date)
		if err != nil {
			return nil, err
		}
		if !rng.Contains(d) {
			continue
		}
		if cur, ok := out[d]; !ok || r.NightlyRate < cur {
			out[d] = r.NightlyRate
		}
	}
	return out, nil
}

// recordDate reads the calendar date from the first ten characters of an
// upstream timestamp such as "2024-03-01T00:00:00.000Z".
func recordDate(s string) (civil.Date, error) {
	if len(s) < isoDateLen {
		return civil.Date{}, fmt.Errorf("%w: %q is too short for a calendar date", domain.ErrDateParse, s)
	}
	d, err := civil.ParseDate(s[:isoDateLen])
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: %q: %v", domain.ErrDateParse, s, err)
	}
	return d, nil
}

// ParseDateRange parses YYYY-MM-DD request dates. Order is not checked.
func ParseDateRange(start, end string) (domain.DateRange, error) {
	s, err := civil.ParseDate(start)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: start date %q: %v", domain.ErrDateParse, start, err)
	}
	e, err := civil.ParseDate(end)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: end date %q: %v", domain.ErrDateParse, end, err)
	}
	return domain.DateRange{Start: s, End: e}, nil
}
