package errors

import (
	"errors"
	"fmt"
)

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUniqueness         = "UNIQUENESS_VIOLATION"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidToken       = "INVALID_OR_EXPIRED_TOKEN"
	CodePersistence        = "PERSISTENCE_ERROR"
	CodeConfiguration      = "CONFIGURATION_ERROR"
	CodeUpstreamAuth       = "UPSTREAM_AUTH_ERROR"
)

var (
	ErrInvalidCredentials = errors.New("Incorrect password")
	ErrInvalidToken       = errors.New("Invalid or expired token")
	ErrTokenExpired       = errors.New("The reset token has expired. Please request a new password reset.")
	ErrTokenRequired      = errors.New("Token is required")

	ErrUserNotFound = errors.New("User not found")

	ErrEmailTaken    = errors.New("Email is already in use.")
	ErrUsernameTaken = errors.New("Username is already in use.")
	ErrBothTaken     = errors.New("Email and username are already in use.")
	ErrAccountTaken  = errors.New("Email or username is already in use.")

	ErrFieldsRequired      = errors.New("Username, email and password are required")
	ErrCredentialsRequired = errors.New("Username or email and password are required")
	ErrEmailRequired       = errors.New("Email is required")
	ErrInvalidEmail        = errors.New("Invalid email format")
	ErrInvalidUsername     = errors.New("Username must be 3-20 characters of letters, digits or underscores")
	ErrWeakPassword        = errors.New("Password must be 6-16 characters and contain a digit and one of !@#$%^&*")
	ErrNoEmailInProfile    = errors.New("No email associated with this account")

	ErrPersistence      = errors.New("Could not complete the request, please try again later")
	ErrResetEmailFailed = errors.New("Could not send the password reset email, please try again later")
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap builds an AppError whose message is the text of the sentinel and whose
// chain still matches it with errors.Is.
func Wrap(code string, sentinel error) *AppError {
	return &AppError{Code: code, Message: sentinel.Error(), Err: sentinel}
}

func Validation(sentinel error) *AppError {
	return Wrap(CodeValidation, sentinel)
}

func Uniqueness(sentinel error) *AppError {
	return Wrap(CodeUniqueness, sentinel)
}

// Persistence hides the underlying store error behind a stable message while
// keeping it in the chain for logging.
func Persistence(op string, err error) *AppError {
	return &AppError{Code: CodePersistence, Message: ErrPersistence.Error(), Err: fmt.Errorf("%s: %w", op, err)}
}

func Configuration(message string) *AppError {
	return &AppError{Code: CodeConfiguration, Message: message}
}

func UpstreamAuth(provider string, err error) *AppError {
	return &AppError{Code: CodeUpstreamAuth, Message: provider + " sign-in failed", Err: err}
}

// CodeOf returns the AppError code in err's chain, or "" if there is none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
