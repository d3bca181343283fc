package filter

import (
	"sort"
	"time"
)

// State is an immutable snapshot of every filter criterion. The zero value is
// not the default state; use Default or Reducer.Default.
type State struct {
	searchText string
	types      map[string]struct{}
	startDate  *time.Time
	endDate    *time.Time
	dateLabel  string
	distanceKm float64
	users      map[string]struct{}
}

// Default returns the initial state of a filter session.
func Default() State {
	return State{dateLabel: DateRangePlaceholder}
}

func (s State) SearchText() string    { return s.searchText }
func (s State) DateLabel() string     { return s.dateLabel }
func (s State) DistanceKm() float64   { return s.distanceKm }
func (s State) StartDate() *time.Time { return copyTime(s.startDate) }
func (s State) EndDate() *time.Time   { return copyTime(s.endDate) }

// Types returns the selected categories in sorted order. Empty means all.
func (s State) Types() []string { return sortedKeys(s.types) }

// Users returns the selected author ids in sorted order. Empty means all.
func (s State) Users() []string { return sortedKeys(s.users) }

func (s State) HasType(label string) bool {
	_, ok := s.types[label]
	return ok
}

func (s State) HasUser(id string) bool {
	_, ok := s.users[id]
	return ok
}

// HasDateRange reports whether both bounds are set.
func (s State) HasDateRange() bool {
	return s.startDate != nil && s.endDate != nil
}

// Equal compares two states field by field.
func (s State) Equal(o State) bool {
	return s.searchText == o.searchText &&
		s.dateLabel == o.dateLabel &&
		s.distanceKm == o.distanceKm &&
		timeEqual(s.startDate, o.startDate) &&
		timeEqual(s.endDate, o.endDate) &&
		setEqual(s.types, o.types) &&
		setEqual(s.users, o.users)
}

// clone copies the sets and time pointers so the result shares nothing with s.
func (s State) clone() State {
	out := s
	out.types = copySet(s.types)
	out.users = copySet(s.users)
	out.startDate = copyTime(s.startDate)
	out.endDate = copyTime(s.endDate)
	return out
}

// StateView is the JSON projection of a State.
type StateView struct {
	SearchText       string     `json:"searchText"`
	Types            []string   `json:"types"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	DisplayDateLabel string     `json:"displayDateLabel"`
	DistanceKm       float64    `json:"distanceKm"`
	Users            []string   `json:"users"`
	UsersLabel       string     `json:"usersLabel"`
}

func (s State) View() StateView {
	return StateView{
		SearchText:       s.searchText,
		Types:            s.Types(),
		StartDate:        s.StartDate(),
		EndDate:          s.EndDate(),
		DisplayDateLabel: s.dateLabel,
		DistanceKm:       s.distanceKm,
		Users:            s.Users(),
		UsersLabel:       UsersLabel(len(s.users)),
	}
}

func toggle(set map[string]struct{}, key string) map[string]struct{} {
	if set == nil {
		set = make(map[string]struct{}, 1)
	}
	if _, ok := set[key]; ok {
		delete(set, key)
	} else {
		set[key] = struct{}{}
	}
	return set
}

func copySet(in map[string]struct{}) map[string]struct{} {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func timeEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
