package entity

import "errors"

// Domain errors
var (
	// Boundary rejections
	ErrRateLimited       = errors.New("rate limit exceeded")
	ErrInjectionDetected = errors.New("potentially malicious input detected")

	// Validation errors
	ErrMissingCustomerID = errors.New("customer_id is required")
	ErrInvalidRequest    = errors.New("invalid request body")

	// Generation errors
	ErrEmptyCompletion = errors.New("empty completion from generative backend")
)
