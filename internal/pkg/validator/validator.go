package validator

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex    = regexp.MustCompile(`^\+?[0-9]{6,15}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,20}$`)
	nameRegex     = regexp.MustCompile(`^[\p{L}\s\-'.]+$`)
	phoneStrip    = regexp.MustCompile(`[\s\-()/]`)
)

// Errors collects per-field validation messages. A nil or empty Errors means
// the input is valid.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has a message.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Err returns e as an error, or nil when no field failed.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// IsValidEmail checks if the email format is valid
func IsValidEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	return emailRegex.MatchString(email)
}

// IsValidPhone accepts digits with an optional leading plus; spaces, dashes,
// slashes and parentheses are ignored.
func IsValidPhone(phone string) bool {
	phone = phoneStrip.ReplaceAllString(strings.TrimSpace(phone), "")
	if phone == "" {
		return false
	}
	return phoneRegex.MatchString(phone)
}

// IsValidUsername checks if the username format is valid
func IsValidUsername(username string) bool {
	if strings.TrimSpace(username) == "" {
		return false
	}
	return usernameRegex.MatchString(username)
}

// IsValidName checks if the name contains only letters, spaces, and common punctuation
func IsValidName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	return nameRegex.MatchString(name) && utf8.RuneCountInString(name) >= 2
}

// IsStrongPassword requires at least 6 characters (the Firebase minimum)
// with at least one letter and one digit.
func IsStrongPassword(password string) bool {
	if utf8.RuneCountInString(password) < 6 {
		return false
	}

	var hasLetter, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}
	return hasLetter && hasNumber
}

// IsValidLatitude reports whether lat is a WGS84 latitude.
func IsValidLatitude(lat float64) bool {
	return lat >= -90.0 && lat <= 90.0
}

// IsValidLongitude reports whether lng is a WGS84 longitude.
func IsValidLongitude(lng float64) bool {
	return lng >= -180.0 && lng <= 180.0
}

// LengthBetween counts runes, not bytes, so Serbian diacritics count once.
func LengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	return n >= min && n <= max
}

// RegisterBindings adds the custom "lat" and "lng" tags to gin's validator so
// query and form DTOs can use them in binding tags.
func RegisterBindings() {
	v, ok := binding.Validator.Engine().(*playground.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("lat", func(fl playground.FieldLevel) bool {
		return IsValidLatitude(fl.Field().Float())
	})
	_ = v.RegisterValidation("lng", func(fl playground.FieldLevel) bool {
		return IsValidLongitude(fl.Field().Float())
	})
}
