package filter

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/xyz-asif/roadwatch/pkg/errors"
)

// Wire names of events.
const (
	EventSearchTextChanged  = "searchTextChanged"
	EventTypeToggled        = "typeToggled"
	EventDistanceChanged    = "distanceChanged"
	EventStartDateChanged   = "startDateChanged"
	EventEndDateChanged     = "endDateChanged"
	EventDateLabelChanged   = "dateLabelChanged"
	EventUserToggled        = "userToggled"
	EventResetAll           = "resetAll"
	EventResetUsers         = "resetUsers"
	EventDateRangeCommitted = "dateRangeCommitted"
	EventDateRangeCleared   = "dateRangeCleared"
)

// wireEvent is the JSON form of an event: {"type": "...", ...fields}.
type wireEvent struct {
	Type  string   `json:"type"`
	Text  *string  `json:"text"`
	Label *string  `json:"label"`
	Value *float64 `json:"value"`
	Date  *string  `json:"date"`
	ID    *string  `json:"id"`
	Start *string  `json:"start"`
	End   *string  `json:"end"`
}

// DecodeEvent parses one JSON-encoded event. Errors wrap ErrBadRequest.
func DecodeEvent(raw json.RawMessage) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, badEvent("malformed event: %v", err)
	}

	switch w.Type {
	case EventSearchTextChanged:
		if w.Text == nil {
			return nil, badEvent("%s requires text", w.Type)
		}
		return SearchTextChanged{Text: *w.Text}, nil
	case EventTypeToggled:
		if w.Label == nil || *w.Label == "" {
			return nil, badEvent("%s requires label", w.Type)
		}
		return TypeToggled{Label: *w.Label}, nil
	case EventDistanceChanged:
		if w.Value == nil {
			return nil, badEvent("%s requires value", w.Type)
		}
		return DistanceChanged{Km: *w.Value}, nil
	case EventStartDateChanged, EventEndDateChanged:
		var at *time.Time
		if w.Date != nil {
			t, err := ParseDate(*w.Date)
			if err != nil {
				return nil, badEvent("%s: %v", w.Type, err)
			}
			at = &t
		}
		if w.Type == EventStartDateChanged {
			return StartDateChanged{At: at}, nil
		}
		return EndDateChanged{At: at}, nil
	case EventDateLabelChanged:
		if w.Label == nil {
			return nil, badEvent("%s requires label", w.Type)
		}
		return DateLabelChanged{Label: *w.Label}, nil
	case EventUserToggled:
		if w.ID == nil || *w.ID == "" {
			return nil, badEvent("%s requires id", w.Type)
		}
		return UserToggled{ID: *w.ID}, nil
	case EventResetAll:
		return ResetAll{}, nil
	case EventResetUsers:
		return ResetUsers{}, nil
	case EventDateRangeCommitted:
		if w.Start == nil || w.End == nil {
			return nil, badEvent("%s requires start and end", w.Type)
		}
		start, err := ParseDate(*w.Start)
		if err != nil {
			return nil, badEvent("%s: start: %v", w.Type, err)
		}
		end, err := ParseDate(*w.End)
		if err != nil {
			return nil, badEvent("%s: end: %v", w.Type, err)
		}
		return DateRangeCommitted{Start: start, End: end}, nil
	case EventDateRangeCleared:
		return DateRangeCleared{}, nil
	case "":
		return nil, badEvent("event type is required")
	default:
		return nil, badEvent("unknown event type %q", w.Type)
	}
}

// DecodeEvents decodes a batch. The first invalid event fails the whole batch.
func DecodeEvents(raw []json.RawMessage) ([]Event, error) {
	events := make([]Event, 0, len(raw))
	for i, r := range raw {
		e, err := DecodeEvent(r)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, e)
	}
	return events, nil
}

// EventName returns the wire name of e.
func EventName(e Event) string {
	switch e.(type) {
	case SearchTextChanged:
		return EventSearchTextChanged
	case TypeToggled:
		return EventTypeToggled
	case DistanceChanged:
		return EventDistanceChanged
	case StartDateChanged:
		return EventStartDateChanged
	case EndDateChanged:
		return EventEndDateChanged
	case DateLabelChanged:
		return EventDateLabelChanged
	case UserToggled:
		return EventUserToggled
	case ResetAll:
		return EventResetAll
	case ResetUsers:
		return EventResetUsers
	case DateRangeCommitted:
		return EventDateRangeCommitted
	case DateRangeCleared:
		return EventDateRangeCleared
	default:
		return "unknown"
	}
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (UTC midnight).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected RFC3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

func badEvent(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), apperrors.ErrBadRequest)
}
