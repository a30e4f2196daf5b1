// Package types provides shared type definitions for the caller-ID directory.
//
// Records come from the record store:
//
//	account := &types.Account{
//	    ID:          id,
//	    DisplayName: "John Smith",
//	    PhoneNumber: "+15550000001",
//	}
//
// A ContactEntry is one account's private label for a number; many owners
// can hold entries for the same number under different names. A SpamReport
// is soft-deleted by clearing IsActive.
//
// # Search Results
//
// SearchResult is derived per query and never persisted beyond the search
// cache TTL. Email is a pointer so it can be left out of the JSON payload
// when the requester is not allowed to see it.
//
// # Errors
//
// Sentinel errors (ErrInvalidQuery, ErrDuplicateReport, ErrNotFound, ...)
// are wrapped by every layer and tested with errors.Is.
package types
