package errors

import (
	"errors"
	"fmt"
)

// This package defines a centralized set of sentinel errors for the application.
// Services wrap these with `fmt.Errorf("%w: ...")` and the API layer uses
// `errors.Is()` to map them to HTTP responses without the services knowing
// anything about status codes.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	// This is typically mapped to a 404 Not Found HTTP status.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data provided by a client failed
	// validation. This is typically mapped to a 400 Bad Request HTTP status.
	ErrValidation = errors.New("validation failed")

	// ErrConfiguration signifies that the server is missing something it needs
	// to reach the model service, such as an API key. It is fatal for the
	// request, not for the process.
	ErrConfiguration = errors.New("configuration error")

	// ErrUpstream signifies that the hosted model service failed or refused
	// the request.
	ErrUpstream = errors.New("upstream model error")

	// ErrRateLimited signifies that the caller exceeded the configured request rate.
	// This is mapped to a 429 Too Many Requests HTTP status.
	ErrRateLimited = errors.New("rate limited")

	// ErrInternal signifies an unexpected error on the server. This is a generic
	// error used to prevent leaking implementation details to the client.
	ErrInternal = errors.New("internal server error")
)

// MissingAPIKeyMessage is the text the proxy answers with when no model
// credential is configured.
const MissingAPIKeyMessage = "API_KEY environment variable not set"

// ErrMissingAPIKey is the configuration error for an absent model credential.
var ErrMissingAPIKey = fmt.Errorf("%w: %s", ErrConfiguration, MissingAPIKeyMessage)
