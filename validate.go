package streambase

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// LoginPayload carries regular user credentials.
type LoginPayload struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

// Validate will run validation rules
func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(
			&p.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&p.Password,
			validation.Required,
		),
	)
}

// AdminLoginPayload carries admin credentials; admins supply a PIN beyond
// email and password.
type AdminLoginPayload struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	PIN        string `json:"pin"`
	RememberMe bool   `json:"remember_me"`
}

// Validate will run validation rules
func (p AdminLoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(
			&p.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&p.Password,
			validation.Required,
		),
		validation.Field(
			&p.PIN,
			validation.Required,
			validation.Length(4, 8),
			is.Digit,
		),
	)
}

// Registration is the sign-up payload. A successful registration never
// starts a session; the caller signs in explicitly afterwards.
type Registration struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password"`
	Confirm   string `json:"confirm_password"`
}

// Validate will run validation rules
func (r Registration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Phone, validation.By(validateOptionalPhone)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(
			&r.Confirm,
			validation.Required,
			validation.By(validateStringEquals(r.Password)),
		),
	)
}

func validateStringEquals(expected string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != expected {
			return errors.New("passwords do not match")
		}
		return nil
	}
}

// validateOptionalPhone accepts empty values; non-empty values must parse as
// a valid number. Bare national numbers are interpreted as US.
func validateOptionalPhone(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	num, err := phonenumbers.Parse(s, "US")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return errors.New("must be a valid phone number")
	}
	return nil
}
