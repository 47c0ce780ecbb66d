package sentinel

import "errors"

// Sentinel errors for infrastructure facts. The registry engine and resource
// stores wrap these so domain layers can translate them into their own error
// kinds without matching on concrete types.
//
// - ErrNotFound: the requested registry, item or resource does not exist
// - ErrConflict: an item with the same key is already present
// - ErrUnavailable: a backing service could not be reached
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
