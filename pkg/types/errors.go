package types

import "errors"

// Domain errors
var (
	// Query errors
	ErrInvalidQuery = errors.New("invalid query")

	// Spam report errors
	ErrDuplicateReport = errors.New("active spam report already exists for this number")
	ErrSelfReport      = errors.New("cannot report your own number as spam")

	// Lookup errors
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("requester identity required")

	// Record validation errors
	ErrMissingID          = errors.New("id is required")
	ErrMissingName        = errors.New("display name is required")
	ErrMissingPhoneNumber = errors.New("phone number is required")
	ErrInvalidPhoneNumber = errors.New("phone number is malformed")
	ErrMissingOwner       = errors.New("owner is required")
	ErrInvalidLikelihood  = errors.New("spam likelihood must be between 0 and 100")
)
