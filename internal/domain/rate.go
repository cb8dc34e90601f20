package domain

import "cloud.google.com/go/civil"

// RateRecord is one flattened upstream room rate. Date keeps the upstream text;
// its first ten characters are the calendar date.
type RateRecord struct {
	Date        string
	NightlyRate float64
	RateID      int64
}

// DateRange is closed on both ends. Start after End is allowed and matches nothing.
type DateRange struct {
	Start civil.Date
	End   civil.Date
}

func (r DateRange) Contains(d civil.Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) Inverted() bool { return r.Start.After(r.End) }

// MinRateMap maps a calendar date to the lowest nightly rate seen for it.
type MinRateMap map[civil.Date]float64
