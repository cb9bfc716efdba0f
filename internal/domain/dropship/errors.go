package dropship

import "errors"

var (
	// Transport errors
	ErrTransport = errors.New("dropship: transport failure")

	// Data-quality errors (order-specific, never retried)
	ErrIncompleteAddress = errors.New("dropship: shipping address is missing required fields")
	ErrNoValidLines      = errors.New("dropship: no line items passed availability validation")

	// Submission errors
	ErrSubmissionRejected = errors.New("dropship: distributor rejected suborder submission")

	// Lookup errors
	ErrNotFound = errors.New("dropship: resource not found")
)
