package services

import "fmt"

// State error codes
const (
	CodeAlreadyAccepted   = "ALREADY_ACCEPTED"
	CodeInvalidTransition = "INVALID_TRANSITION"
)

// ValidationError reports a bad or missing input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// DuplicateError reports a value that must be unique and is already taken
type DuplicateError struct {
	Resource string
	Key      string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Resource, e.Key)
}

// NotFoundError reports an unknown order or user
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// StateError reports a transition the order state machine does not allow
type StateError struct {
	Code    string
	Message string
}

func (e *StateError) Error() string {
	return e.Message
}

// ForbiddenError reports an operation the acting user may not perform
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// AuthenticationError reports rejected credentials
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}
