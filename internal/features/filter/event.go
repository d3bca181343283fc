package filter

import "time"

// Event is a discrete filter interaction. The set of events is closed: only
// the types declared in this file implement it.
type Event interface {
	filterEvent()
}

// SearchTextChanged replaces the title search text.
type SearchTextChanged struct{ Text string }

// TypeToggled adds the category if absent and removes it if present.
type TypeToggled struct{ Label string }

// DistanceChanged sets the distance cap. Values outside the slider range are clamped.
type DistanceChanged struct{ Km float64 }

// StartDateChanged sets or clears the lower date bound.
type StartDateChanged struct{ At *time.Time }

// EndDateChanged sets or clears the upper date bound.
type EndDateChanged struct{ At *time.Time }

// DateLabelChanged replaces the display label of the date range.
type DateLabelChanged struct{ Label string }

// UserToggled adds the author if absent and removes it if present.
type UserToggled struct{ ID string }

// ResetAll restores the default state.
type ResetAll struct{}

// ResetUsers clears the author selection only.
type ResetUsers struct{}

// DateRangeCommitted sets both bounds and the label in one transition.
type DateRangeCommitted struct{ Start, End time.Time }

// DateRangeCleared removes both bounds and restores the placeholder label.
type DateRangeCleared struct{}

func (SearchTextChanged) filterEvent()  {}
func (TypeToggled) filterEvent()        {}
func (DistanceChanged) filterEvent()    {}
func (StartDateChanged) filterEvent()   {}
func (EndDateChanged) filterEvent()     {}
func (DateLabelChanged) filterEvent()   {}
func (UserToggled) filterEvent()        {}
func (ResetAll) filterEvent()           {}
func (ResetUsers) filterEvent()         {}
func (DateRangeCommitted) filterEvent() {}
func (DateRangeCleared) filterEvent()   {}
