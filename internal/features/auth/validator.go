package auth

import (
	"strings"

	"github.com/xyz-asif/roadwatch/internal/pkg/validator"
)

// Normalize trims the form fields and lowercases the email.
func (r *RegisterRequest) Normalize() {
	r.Ime = strings.TrimSpace(r.Ime)
	r.Prezime = strings.TrimSpace(r.Prezime)
	r.Telefon = strings.TrimSpace(r.Telefon)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Username = strings.TrimSpace(r.Username)
}

// ValidateRegister checks every field and reports all failures at once.
func ValidateRegister(r *RegisterRequest) validator.Errors {
	errs := validator.Errors{}

	if r.Ime == "" {
		errs.Add("ime", "First name is required")
	} else if !validator.IsValidName(r.Ime) || !validator.LengthBetween(r.Ime, 2, 50) {
		errs.Add("ime", "First name must be 2-50 letters")
	}

	if r.Prezime == "" {
		errs.Add("prezime", "Last name is required")
	} else if !validator.IsValidName(r.Prezime) || !validator.LengthBetween(r.Prezime, 2, 50) {
		errs.Add("prezime", "Last name must be 2-50 letters")
	}

	if r.Telefon == "" {
		errs.Add("telefon", "Phone number is required")
	} else if !validator.IsValidPhone(r.Telefon) {
		errs.Add("telefon", "Phone number is not valid")
	}

	if r.Email == "" {
		errs.Add("email", "Email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "Email is not valid")
	}

	if r.Username == "" {
		errs.Add("username", "Username is required")
	} else if !validator.IsValidUsername(r.Username) {
		errs.Add("username", "Username must be 3-20 letters, digits, '.', '_' or '-'")
	}

	if r.Password == "" {
		errs.Add("password", "Password is required")
	} else if !validator.IsStrongPassword(r.Password) {
		errs.Add("password", "Password must have at least 6 characters, including a letter and a digit")
	}

	return errs
}
