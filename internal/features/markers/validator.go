package markers

import (
	"strconv"
	"strings"

	"github.com/xyz-asif/roadwatch/internal/features/filter"
	"github.com/xyz-asif/roadwatch/internal/pkg/validator"
)

// ValidatedMarker holds the parsed fields of a valid create request.
type ValidatedMarker struct {
	Title       string
	Description string
	Type        string
	Location    GeoPoint
}

// ValidateCreate checks every field of the form and reports all failures together.
func ValidateCreate(req *CreateMarkerRequest, catalog *filter.Catalog) (*ValidatedMarker, validator.Errors) {
	errs := validator.Errors{}
	out := &ValidatedMarker{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Type:        strings.TrimSpace(req.Type),
	}

	if out.Title == "" {
		errs.Add("title", "Title is required")
	} else if !validator.LengthBetween(out.Title, 3, 100) {
		errs.Add("title", "Title must be between 3 and 100 characters")
	}

	if out.Description == "" {
		errs.Add("description", "Description is required")
	} else if !validator.LengthBetween(out.Description, 1, 500) {
		errs.Add("description", "Description cannot exceed 500 characters")
	}

	if out.Type == "" {
		errs.Add("type", "Type is required")
	} else if !catalog.HasType(out.Type) {
		errs.Add("type", "Type must be one of: "+strings.Join(catalog.Types, ", "))
	}

	lat, latErr := parseCoordinate(req.Lat)
	switch {
	case latErr != "":
		errs.Add("lat", "Latitude "+latErr)
	case !validator.IsValidLatitude(lat):
		errs.Add("lat", "Latitude must be between -90 and 90")
	}

	lng, lngErr := parseCoordinate(req.Lng)
	switch {
	case lngErr != "":
		errs.Add("lng", "Longitude "+lngErr)
	case !validator.IsValidLongitude(lng):
		errs.Add("lng", "Longitude must be between -180 and 180")
	}

	if len(errs) > 0 {
		return nil, errs
	}
	out.Location = NewPoint(lat, lng)
	return out, nil
}

func parseCoordinate(s string) (float64, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, "is required"
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, "must be a number"
	}
	return v, ""
}
