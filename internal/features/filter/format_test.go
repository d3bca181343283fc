package filter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRange(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "Izaberite opseg", FormatRange(nil, nil))
	assert.Equal(t, "Izaberite opseg", FormatRange(&start, nil))
	assert.Equal(t, "Izaberite opseg", FormatRange(nil, &end))

	got := FormatRange(&start, &end)
	assert.Equal(t, "Mar 01, 2024 - Dec 25, 2024", got)
	assert.True(t, strings.Contains(got, start.Format("Jan 02, 2006")))
	assert.True(t, strings.Contains(got, end.Format("Jan 02, 2006")))
}

func TestFormatRange_SameDay(t *testing.T) {
	d := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Jan 02, 2024 - Jan 02, 2024", FormatRange(&d, &d))
}

func TestFormatRange_RendersInUTC(t *testing.T) {
	belgrade := time.FixedZone("CET", 3600)
	start := time.Date(2024, 3, 1, 0, 30, 0, 0, belgrade) // Feb 29 23:30 UTC
	assert.Equal(t, "Feb 29, 2024 - Feb 29, 2024", FormatRange(&start, &start))
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 5, 1, 14, 5, 0, 0, time.UTC)
	assert.Equal(t, "May 01, 2024 u 14:05", FormatTimestamp(ts))
}

func TestUsersLabel(t *testing.T) {
	assert.Equal(t, "Svi korisnici", UsersLabel(0))
	assert.Equal(t, "1 korisnik izabran", UsersLabel(1))
	assert.Equal(t, "2 korisnika izabrano", UsersLabel(2))
	assert.Equal(t, "17 korisnika izabrano", UsersLabel(17))
}

func TestSliderFraction(t *testing.T) {
	assert.Equal(t, 0.0, SliderFraction(0, 999, 0))
	assert.Equal(t, 1.0, SliderFraction(0, 999, 999))
	assert.InDelta(t, 0.5, SliderFraction(0, 100, 50), 1e-9)
	assert.Equal(t, 1.0, SliderFraction(0, 100, 150))
	assert.Equal(t, 0.0, SliderFraction(0, 100, -5))
	assert.Equal(t, 0.0, SliderFraction(5, 5, 5))
}

func TestSliderOffset(t *testing.T) {
	assert.Equal(t, 0.0, SliderOffset(0, 0, 999, 300, 40))
	assert.Equal(t, 260.0, SliderOffset(999, 0, 999, 300, 40))
	assert.Equal(t, 260.0, SliderOffset(5000, 0, 999, 300, 40))
	assert.InDelta(t, 130.0, SliderOffset(50, 0, 100, 300, 40), 1e-9)
}
