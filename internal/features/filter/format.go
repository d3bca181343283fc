package filter

import (
	"fmt"
	"time"
)

const (
	// DateRangePlaceholder is shown while no date range is chosen.
	DateRangePlaceholder = "Izaberite opseg"

	dateLayout      = "Jan 02, 2006"
	timestampLayout = "Jan 02, 2006 u 15:04"
	rangeSeparator  = " - "
)

// FormatRange renders a date range for display. If either bound is missing
// the placeholder is returned. Both bounds are rendered in UTC.
func FormatRange(start, end *time.Time) string {
	if start == nil || end == nil {
		return DateRangePlaceholder
	}
	return start.UTC().Format(dateLayout) + rangeSeparator + end.UTC().Format(dateLayout)
}

// FormatTimestamp renders a marker creation time, e.g. "May 01, 2024 u 14:05".
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// UsersLabel is the caption of the author selector.
func UsersLabel(selected int) string {
	switch {
	case selected <= 0:
		return "Svi korisnici"
	case selected == 1:
		return "1 korisnik izabran"
	default:
		return fmt.Sprintf("%d korisnika izabrano", selected)
	}
}
