package models

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/cinetx/internal/shared"
)

// Validation limits mirroring the backend's rules. Checks run client-side
// before a request is ever sent; the server remains the authority.
const (
	MinPasswordLength = 8
	MinNameLength     = 2
	MaxNameLength     = 50
	MinAge            = 13
	MaxAge            = 120
	MinRating         = 1
	MaxRating         = 5
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	passwordPattern = regexp.MustCompile(`^[a-zA-Z\d@$!%*?&]{8,}$`)
	namePattern     = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s]+$`)
	hasLower        = regexp.MustCompile(`[a-z]`)
	hasUpper        = regexp.MustCompile(`[A-Z]`)
	hasDigit        = regexp.MustCompile(`\d`)
)

// RegisterData is the payload for account creation.
type RegisterData struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Age             int    `json:"age"`
}

// Validate collects every form-level failure as a user-facing message.
func (d RegisterData) Validate() error {
	var problems []string

	for _, name := range []string{d.FirstName, d.LastName} {
		if err := validateName(name); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if !emailPattern.MatchString(d.Email) {
		problems = append(problems, "El correo electrónico no es válido.")
	}
	if err := ValidatePassword(d.Password); err != nil {
		problems = append(problems, err.Error())
	}
	if d.Password != d.ConfirmPassword {
		problems = append(problems, "Las contraseñas no coinciden.")
	}
	if d.Age < MinAge || d.Age > MaxAge {
		problems = append(problems, fmt.Sprintf("La edad debe estar entre %d y %d años.", MinAge, MaxAge))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", shared.ErrValidation, strings.Join(problems, "\n"))
	}
	return nil
}

// LoginData is the payload for obtaining a session token.
type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate rejects empty credentials before the network call.
func (d LoginData) Validate() error {
	if strings.TrimSpace(d.Email) == "" || d.Password == "" {
		return fmt.Errorf("%w: correo y contraseña son obligatorios", shared.ErrValidation)
	}
	return nil
}

// UpdateProfileData is the payload for profile updates; zero fields are omitted.
type UpdateProfileData struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Age       int    `json:"age,omitempty"`
}

// Validate checks only the fields that are actually set.
func (d UpdateProfileData) Validate() error {
	var problems []string

	for _, name := range []string{d.FirstName, d.LastName} {
		if name == "" {
			continue
		}
		if err := validateName(name); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if d.Email != "" && !emailPattern.MatchString(d.Email) {
		problems = append(problems, "El correo electrónico no es válido.")
	}
	if d.Age != 0 && (d.Age < MinAge || d.Age > MaxAge) {
		problems = append(problems, fmt.Sprintf("La edad debe estar entre %d y %d años.", MinAge, MaxAge))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", shared.ErrValidation, strings.Join(problems, "\n"))
	}
	return nil
}

// ChangePasswordData is the payload for an authenticated password change.
type ChangePasswordData struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate checks the new password against the platform's password policy.
func (d ChangePasswordData) Validate() error {
	if d.CurrentPassword == "" {
		return fmt.Errorf("%w: la contraseña actual es obligatoria", shared.ErrValidation)
	}
	if err := ValidatePassword(d.NewPassword); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrValidation, err.Error())
	}
	if d.NewPassword != d.ConfirmPassword {
		return fmt.Errorf("%w: las contraseñas no coinciden", shared.ErrValidation)
	}
	return nil
}

// ValidatePassword enforces the backend's password policy: at least 8
// characters with lowercase, uppercase, and a digit.
func ValidatePassword(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return fmt.Errorf("la contraseña debe tener al menos %d caracteres", MinPasswordLength)
	case !hasLower.MatchString(password):
		return fmt.Errorf("la contraseña debe incluir una letra minúscula")
	case !hasUpper.MatchString(password):
		return fmt.Errorf("la contraseña debe incluir una letra mayúscula")
	case !hasDigit.MatchString(password):
		return fmt.Errorf("la contraseña debe incluir un número")
	case !passwordPattern.MatchString(password):
		return fmt.Errorf("la contraseña contiene caracteres no permitidos")
	}
	return nil
}

// ValidateRatingValue rejects values outside the 1-5 star range.
func ValidateRatingValue(value int) error {
	if value < MinRating || value > MaxRating {
		return fmt.Errorf("%w: la calificación debe estar entre %d y %d", shared.ErrValidation, MinRating, MaxRating)
	}
	return nil
}

func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if n := utf8.RuneCountInString(trimmed); n < MinNameLength || n > MaxNameLength {
		return fmt.Errorf("el nombre debe tener entre %d y %d caracteres", MinNameLength, MaxNameLength)
	}
	if !namePattern.MatchString(trimmed) {
		return fmt.Errorf("el nombre solo puede contener letras")
	}
	return nil
}
