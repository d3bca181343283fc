package markers

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/roadwatch/internal/features/filter"
	apperrors "github.com/xyz-asif/roadwatch/pkg/errors"
)

const (
	authorA = "65f1a2b3c4d5e6f708192a3b"
	authorB = "65f1a2b3c4d5e6f708192a3c"
)

func TestBuildQuery_EmptyState(t *testing.T) {
	q, err := BuildQuery(filter.Default(), nil)
	require.NoError(t, err)
	require.Empty(t, q)
}

func TestBuildQuery_AllCriteria(t *testing.T) {
	state := filter.ApplyAll(filter.Default(),
		filter.SearchTextChanged{Text: "rupa (velika)"},
		filter.TypeToggled{Label: "Rupa na putu"},
		filter.UserToggled{ID: authorB},
		filter.UserToggled{ID: authorA},
		filter.DistanceChanged{Km: 12.75},
		filter.DateRangeCommitted{
			Start: time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC),
		},
	)
	ref := NewPoint(44.8125, 20.4612)

	q, err := BuildQuery(state, &ref)
	require.NoError(t, err)

	require.Equal(t, primitive.Regex{Pattern: `rupa \(velika\)`, Options: "i"}, q["title"])
	require.Equal(t, bson.M{"$in": []string{"Rupa na putu"}}, q["type"])

	a, _ := primitive.ObjectIDFromHex(authorA)
	b, _ := primitive.ObjectIDFromHex(authorB)
	require.Equal(t, bson.M{"$in": []primitive.ObjectID{a, b}}, q["userId"])

	sphere := q["location"].(bson.M)["$geoWithin"].(bson.M)["$centerSphere"].(bson.A)
	require.Equal(t, bson.A{20.4612, 44.8125}, sphere[0])
	require.InDelta(t, 12.75/6378.1, sphere[1].(float64), 1e-12)

	created := q["createdAt"].(bson.M)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), created["$gte"])
	require.Equal(t, time.Date(2024, 3, 9, 23, 59, 59, 999999999, time.UTC), created["$lte"])
}

func TestBuildQuery_DistanceNeedsReference(t *testing.T) {
	state := filter.Apply(filter.Default(), filter.DistanceChanged{Km: 5})
	_, err := BuildQuery(state, nil)
	require.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestBuildQuery_ZeroDistanceIsUncapped(t *testing.T) {
	state := filter.Apply(filter.Default(), filter.DistanceChanged{Km: -3})
	q, err := BuildQuery(state, nil)
	require.NoError(t, err)
	require.NotContains(t, q, "location")
}

func TestBuildQuery_InvalidUserID(t *testing.T) {
	state := filter.Apply(filter.Default(), filter.UserToggled{ID: "u1"})
	_, err := BuildQuery(state, nil)
	require.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestBuildQuery_BlankSearchIgnored(t *testing.T) {
	state := filter.Apply(filter.Default(), filter.SearchTextChanged{Text: "   "})
	q, err := BuildQuery(state, nil)
	require.NoError(t, err)
	require.Empty(t, q)
}

func TestStateFromQuery(t *testing.T) {
	values := url.Values{
		"q":        {"semafor"},
		"type":     {"Semafor", "Semafor", "Ostalo"},
		"user":     {authorA},
		"distance": {"2000"},
		"from":     {"2024-03-09"},
		"to":       {"2024-03-01"},
	}

	state, err := StateFromQuery(values, filter.DefaultCatalog())
	require.NoError(t, err)
	require.Equal(t, "semafor", state.SearchText())
	require.Equal(t, []string{"Ostalo", "Semafor"}, state.Types())
	require.Equal(t, []string{authorA}, state.Users())
	require.Equal(t, float64(999), state.DistanceKm())
	require.Equal(t, "Mar 01, 2024 - Mar 09, 2024", state.DateLabel())
}

func TestStateFromQuery_Empty(t *testing.T) {
	state, err := StateFromQuery(url.Values{}, filter.DefaultCatalog())
	require.NoError(t, err)
	require.True(t, state.Equal(filter.Default()))
}

func TestStateFromQuery_Rejects(t *testing.T) {
	tests := map[string]url.Values{
		"unknown type": {"type": {"Vulkan"}},
		"bad user":     {"user": {"nobody"}},
		"bad distance": {"distance": {"far"}},
		"lone from":    {"from": {"2024-03-01"}},
		"bad to":       {"from": {"2024-03-01"}, "to": {"soon"}},
	}
	for name, values := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := StateFromQuery(values, filter.DefaultCatalog())
			require.ErrorIs(t, err, apperrors.ErrBadRequest)
		})
	}
}
