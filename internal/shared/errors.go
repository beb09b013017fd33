package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Booking service errors
	ErrTransport          = fmt.Errorf("transport failure")
	ErrMalformedResponse  = fmt.Errorf("malformed response")
	ErrApplication        = fmt.Errorf("booking service rejected the request")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Session errors, raised before anything reaches the network
	ErrNotReady        = fmt.Errorf("course, slot, first name and last name are required")
	ErrSubmitPending   = fmt.Errorf("a booking is already in progress")
	ErrNoCourse        = fmt.Errorf("no course selected")
	ErrSlotUnavailable = fmt.Errorf("time slot is not available")

	// Persistence errors
	ErrReceiptNotFound = fmt.Errorf("receipt not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
