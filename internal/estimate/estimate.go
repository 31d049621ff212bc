package estimate

import (
	"errors"
	"fmt"
)

const (
	// MiB is one mebibyte.
	MiB = 1024 * 1024

	// FreeTierBytes is the Firestore free tier storage quota (1 GiB).
	FreeTierBytes = 1024 * MiB
)

// ErrInvalidParams is returned for non-positive sizes or counts.
var ErrInvalidParams = errors.New("invalid estimate parameters")

// Params describes the stored data.
type Params struct {
	// Seats is the number of seats reporting data.
	Seats int `json:"seats"`

	// DailyCountsPerYear is the number of daily count entries kept per year.
	DailyCountsPerYear int `json:"daily_counts_per_year"`

	// SessionsPerDay is the assumed number of sessions per seat and day.
	// It does not change storage, since history is capped.
	SessionsPerDay int `json:"sessions_per_day"`

	// SessionHistoryLimit is the number of sessions kept per seat.
	SessionHistoryLimit int `json:"session_history_limit"`

	// BytesPerSession and BytesPerDailyCount are approximate record sizes.
	BytesPerSession    int `json:"bytes_per_session"`
	BytesPerDailyCount int `json:"bytes_per_daily_count"`

	// OptimizedDays and OptimizedSessions are the trimmed retention.
	OptimizedDays     int `json:"optimized_days"`
	OptimizedSessions int `json:"optimized_sessions"`

	// Years is how far the growth projection reaches.
	Years int `json:"years"`
}

// DefaultParams returns the sizing the exhibit database was designed with.
func DefaultParams() Params {
	return Params{
		Seats:               5,
		DailyCountsPerYear:  365,
		SessionsPerDay:      50,
		SessionHistoryLimit: 50,
		BytesPerSession:     200,
		BytesPerDailyCount:  50,
		OptimizedDays:       30,
		OptimizedSessions:   20,
		Years:               5,
	}
}

// Validate reports the first non-positive field.
func (p Params) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"seats", p.Seats},
		{"daily counts per year", p.DailyCountsPerYear},
		{"session history limit", p.SessionHistoryLimit},
		{"bytes per session", p.BytesPerSession},
		{"bytes per daily count", p.BytesPerDailyCount},
		{"optimized days", p.OptimizedDays},
		{"optimized sessions", p.OptimizedSessions},
		{"years", p.Years},
	}
	for _, f := range fields {
		if f.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidParams, f.name, f.value)
		}
	}
	return nil
}

// Breakdown is the storage of one retention scheme, in bytes.
type Breakdown struct {
	DailyCounts     int64 `json:"daily_counts"`
	SessionHistory  int64 `json:"session_history"`
	CurrentSessions int64 `json:"current_sessions"`
}

// Total returns the sum of all parts.
func (b Breakdown) Total() int64 {
	return b.DailyCounts + b.SessionHistory + b.CurrentSessions
}

// TotalMiB returns Total in mebibytes.
func (b Breakdown) TotalMiB() float64 {
	return float64(b.Total()) / MiB
}

// FreeTierPercent returns Total as a percentage of the free tier.
func (b Breakdown) FreeTierPercent() float64 {
	return float64(b.Total()) / FreeTierBytes * 100
}

// YearPoint is the projected storage after Years years.
type YearPoint struct {
	Years int   `json:"years"`
	Bytes int64 `json:"bytes"`
}

// MiB returns Bytes in mebibytes.
func (y YearPoint) MiB() float64 {
	return float64(y.Bytes) / MiB
}

// Estimate is the result of Calculate.
type Estimate struct {
	Params Params `json:"params"`

	// Current is one year of daily counts with the full session history.
	Current Breakdown `json:"current"`

	// Optimized keeps OptimizedDays of counts and OptimizedSessions sessions.
	Optimized Breakdown `json:"optimized"`

	// Growth projects Current over 1..Years years.
	Growth []YearPoint `json:"growth"`

	// ExceedsFreeTier is set when Current is above the free tier.
	ExceedsFreeTier bool `json:"exceeds_free_tier"`
}

// Calculate computes the estimate for p.
func Calculate(p Params) (*Estimate, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	seats := int64(p.Seats)
	currentSessions := seats * int64(p.BytesPerSession)
	yearOfCounts := seats * int64(p.DailyCountsPerYear) * int64(p.BytesPerDailyCount)
	history := seats * int64(p.SessionHistoryLimit) * int64(p.BytesPerSession)

	e := &Estimate{
		Params: p,
		Current: Breakdown{
			DailyCounts:     yearOfCounts,
			SessionHistory:  history,
			CurrentSessions: currentSessions,
		},
		Optimized: Breakdown{
			DailyCounts:     seats * int64(p.OptimizedDays) * int64(p.BytesPerDailyCount),
			SessionHistory:  seats * int64(p.OptimizedSessions) * int64(p.BytesPerSession),
			CurrentSessions: currentSessions,
		},
		Growth: make([]YearPoint, 0, p.Years),
	}

	for y := 1; y <= p.Years; y++ {
		e.Growth = append(e.Growth, YearPoint{
			Years: y,
			Bytes: yearOfCounts*int64(y) + history + currentSessions,
		})
	}
	e.ExceedsFreeTier = e.Current.Total() > FreeTierBytes

	return e, nil
}
