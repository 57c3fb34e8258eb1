package booking

import (
	"errors"
	"fmt"
)

// BookingError carries a machine-readable code alongside the message so
// handlers can map the taxonomy onto HTTP statuses.
type BookingError struct {
	Code    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const (
	CodeValidation          = "validationError"
	CodeProviderUnavailable = "providerUnavailable"
	CodeStoreUnavailable    = "storeUnavailable"
	CodeInvalidSignature    = "invalidSignature"
)

func NewValidationError(msg string) error {
	return &BookingError{Code: CodeValidation, Message: msg}
}

func NewProviderUnavailableError(msg string) error {
	return &BookingError{Code: CodeProviderUnavailable, Message: msg}
}

func NewStoreUnavailableError(msg string) error {
	return &BookingError{Code: CodeStoreUnavailable, Message: msg}
}

func NewInvalidSignatureError(msg string) error {
	return &BookingError{Code: CodeInvalidSignature, Message: msg}
}

// ErrReferenceExists means a freshly generated reference collided with a
// stored one. That cannot happen under a healthy generator, so it is treated
// as a fatal configuration error and never retried.
var ErrReferenceExists = errors.New("generated reference already exists")

func hasCode(err error, code string) bool {
	var be *BookingError
	return errors.As(err, &be) && be.Code == code
}

func IsValidationError(err error) bool     { return hasCode(err, CodeValidation) }
func IsProviderUnavailable(err error) bool { return hasCode(err, CodeProviderUnavailable) }
func IsStoreUnavailable(err error) bool    { return hasCode(err, CodeStoreUnavailable) }
func IsInvalidSignature(err error) bool    { return hasCode(err, CodeInvalidSignature) }
