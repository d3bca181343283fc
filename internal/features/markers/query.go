package markers

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/roadwatch/internal/features/filter"
	apperrors "github.com/xyz-asif/roadwatch/pkg/errors"
)

// earthRadiusKm converts kilometres to radians for $centerSphere.
const earthRadiusKm = 6378.1

// BuildQuery translates a filter state into a marker collection filter.
// ref is the caller's position; it is required when the state caps distance.
func BuildQuery(state filter.State, ref *GeoPoint) (bson.M, error) {
	query := bson.M{}

	if text := strings.TrimSpace(state.SearchText()); text != "" {
		query["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}
	}

	if types := state.Types(); len(types) > 0 {
		query["type"] = bson.M{"$in": types}
	}

	if users := state.Users(); len(users) > 0 {
		ids := make([]primitive.ObjectID, 0, len(users))
		for _, u := range users {
			oid, err := primitive.ObjectIDFromHex(u)
			if err != nil {
				return nil, fmt.Errorf("invalid user id %q: %w", u, apperrors.ErrBadRequest)
			}
			ids = append(ids, oid)
		}
		query["userId"] = bson.M{"$in": ids}
	}

	if km := state.DistanceKm(); km > 0 {
		if ref == nil {
			return nil, fmt.Errorf("distance filter needs lat and lng: %w", apperrors.ErrBadRequest)
		}
		query["location"] = bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{
					bson.A{ref.Lng(), ref.Lat()},
					km / earthRadiusKm,
				},
			},
		}
	}

	created := bson.M{}
	if start := state.StartDate(); start != nil {
		created["$gte"] = filter.StartOfDay(*start)
	}
	if end := state.EndDate(); end != nil {
		created["$lte"] = filter.EndOfDay(*end)
	}
	if len(created) > 0 {
		query["createdAt"] = created
	}

	return query, nil
}

// StateFromQuery builds a filter state from URL parameters by folding them
// through the reducer: q, type (repeated), user (repeated), distance, from, to.
func StateFromQuery(values url.Values, catalog *filter.Catalog) (filter.State, error) {
	r := catalog.Reducer()
	var events []filter.Event

	if q := strings.TrimSpace(values.Get("q")); q != "" {
		events = append(events, filter.SearchTextChanged{Text: q})
	}

	for _, t := range unique(values["type"]) {
		if !catalog.HasType(t) {
			return filter.State{}, fmt.Errorf("unknown type %q: %w", t, apperrors.ErrBadRequest)
		}
		events = append(events, filter.TypeToggled{Label: t})
	}

	for _, u := range unique(values["user"]) {
		if !primitive.IsValidObjectID(u) {
			return filter.State{}, fmt.Errorf("invalid user id %q: %w", u, apperrors.ErrBadRequest)
		}
		events = append(events, filter.UserToggled{ID: u})
	}

	if d := values.Get("distance"); d != "" {
		km, err := strconv.ParseFloat(d, 64)
		if err != nil {
			return filter.State{}, fmt.Errorf("invalid distance %q: %w", d, apperrors.ErrBadRequest)
		}
		events = append(events, filter.DistanceChanged{Km: km})
	}

	from, to := values.Get("from"), values.Get("to")
	switch {
	case from != "" && to != "":
		start, err := filter.ParseDate(from)
		if err != nil {
			return filter.State{}, fmt.Errorf("from: %v: %w", err, apperrors.ErrBadRequest)
		}
		end, err := filter.ParseDate(to)
		if err != nil {
			return filter.State{}, fmt.Errorf("to: %v: %w", err, apperrors.ErrBadRequest)
		}
		events = append(events, filter.DateRangeCommitted{Start: start, End: end})
	case from != "" || to != "":
		return filter.State{}, fmt.Errorf("from and to must be given together: %w", apperrors.ErrBadRequest)
	}

	return r.ApplyAll(r.Default(), events...), nil
}

// unique drops repeated and blank values; a repeated toggle would cancel itself.
func unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
