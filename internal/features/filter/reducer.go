package filter

import (
	"math"
	"time"
)

const (
	DefaultMinDistanceKm = 0
	DefaultMaxDistanceKm = 999
)

// Reducer computes state transitions for a configured slider range and
// placeholder label.
type Reducer struct {
	MinKm       float64
	MaxKm       float64
	Placeholder string
}

var defaultReducer = Reducer{
	MinKm:       DefaultMinDistanceKm,
	MaxKm:       DefaultMaxDistanceKm,
	Placeholder: DateRangePlaceholder,
}

// Apply returns the state that results from applying event to state, using
// the default slider range. state is never modified.
func Apply(state State, event Event) State {
	return defaultReducer.Apply(state, event)
}

// ApplyAll folds events over state in order.
func ApplyAll(state State, events ...Event) State {
	return defaultReducer.ApplyAll(state, events...)
}

// Default returns the initial state for this reducer.
func (r Reducer) Default() State {
	return State{dateLabel: r.placeholder()}
}

func (r Reducer) ApplyAll(state State, events ...Event) State {
	for _, e := range events {
		state = r.Apply(state, e)
	}
	return state
}

func (r Reducer) Apply(state State, event Event) State {
	next := state.clone()

	switch e := event.(type) {
	case SearchTextChanged:
		next.searchText = e.Text
	case TypeToggled:
		next.types = toggle(next.types, e.Label)
	case DistanceChanged:
		next.distanceKm = r.clamp(e.Km)
	case StartDateChanged:
		next.startDate = copyTime(e.At)
	case EndDateChanged:
		next.endDate = copyTime(e.At)
	case DateLabelChanged:
		next.dateLabel = e.Label
	case UserToggled:
		next.users = toggle(next.users, e.ID)
	case ResetAll:
		return r.Default()
	case ResetUsers:
		next.users = nil
	case DateRangeCommitted:
		start, end := e.Start, e.End
		if start.After(end) {
			start, end = end, start
		}
		next.startDate = &start
		next.endDate = &end
		next.dateLabel = FormatRange(&start, &end)
	case DateRangeCleared:
		next.startDate = nil
		next.endDate = nil
		next.dateLabel = r.placeholder()
	default:
		// nil event
		return state
	}

	return next
}

func (r Reducer) clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.MinKm
	}
	return math.Max(r.MinKm, math.Min(r.MaxKm, v))
}

func (r Reducer) placeholder() string {
	if r.Placeholder == "" {
		return DateRangePlaceholder
	}
	return r.Placeholder
}

// StartOfDay and EndOfDay bound the UTC calendar day containing t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Nanosecond)
}
