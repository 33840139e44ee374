package auth

import "errors"

// Identity error codes
const (
	CodeUserNotFound      = "user-not-found"
	CodeWrongPassword     = "wrong-password"
	CodeInvalidCredential = "invalid-credential"
	CodeInvalidEmail      = "invalid-email"
	CodeEmailAlreadyInUse = "email-already-in-use"
	CodeWeakPassword      = "weak-password"
	CodeUsernameTaken     = "username-taken"
	CodeMissingFields     = "missing-fields"
	CodePasswordMismatch  = "password-mismatch"
)

// Error is a failure reported by the identity provider
type Error struct {
	Code string
	// Suggestion is an alternative username for CodeUsernameTaken
	Suggestion string
}

func (e *Error) Error() string {
	return "auth: " + e.Code
}

// NewError returns an identity error for code
func NewError(code string) *Error {
	return &Error{Code: code}
}

// CodeOf extracts the identity error code from err, or "" when err is not one
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// FriendlyMessage maps an error code to the message shown to people
func FriendlyMessage(code string) string {
	switch code {
	case CodeUserNotFound, CodeWrongPassword, CodeInvalidCredential:
		return "Invalid email or password. Please try again."
	case CodeInvalidEmail:
		return "Please enter a valid email address."
	case CodeEmailAlreadyInUse:
		return "This email address is already registered."
	case CodeWeakPassword:
		return "Password should be at least 6 characters long."
	case CodeUsernameTaken:
		return "This username is already taken."
	case CodeMissingFields:
		return "Please fill in all fields."
	case CodePasswordMismatch:
		return "Passwords do not match."
	default:
		return "Something went wrong. Please try again later."
	}
}

// LoginMessage is FriendlyMessage with the login fallback
func LoginMessage(err error) string {
	if code := CodeOf(err); code != "" {
		return FriendlyMessage(code)
	}
	return "Login failed. Please try again later."
}

// SignupMessage is FriendlyMessage with the sign-up fallback
func SignupMessage(err error) string {
	if code := CodeOf(err); code != "" {
		return FriendlyMessage(code)
	}
	return "Failed to create account. Please try again."
}
