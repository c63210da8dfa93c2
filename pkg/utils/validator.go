package utils

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const passwordSymbols = "!@#$%^&*"

var (
	emailRegex    = regexp.MustCompile(`(?i)^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-z\-0-9]+\.)+[a-z]{2,}))$`)
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
	passwordRegex = regexp.MustCompile(`^[A-Za-z0-9!@#$%^&*]{6,16}$`)
	digitRegex    = regexp.MustCompile(`[0-9]`)
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	_ = validate.RegisterValidation("email_address", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return IsValidUsername(fl.Field().String())
	})
	_ = validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsValidPassword(fl.Field().String())
	})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// FirstFieldError returns the field name and tag of the first failing field,
// in struct declaration order.
func FirstFieldError(err error) (field, tag string, ok bool) {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "", "", false
	}
	return errs[0].Field(), errs[0].Tag(), true
}

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

func IsValidUsername(username string) bool {
	return usernameRegex.MatchString(username)
}

// IsValidPassword requires 6-16 characters drawn from letters, digits and
// !@#$%^&*, with at least one digit and one of those symbols.
func IsValidPassword(password string) bool {
	return passwordRegex.MatchString(password) &&
		digitRegex.MatchString(password) &&
		strings.ContainsAny(password, passwordSymbols)
}
