package translation

import (
	"fmt"

	dErrors "rrss/pkg/domain-errors"
	"rrss/pkg/platform/sentinel"
)

var (
	ErrDuplicatedNamespace = fmt.Errorf("duplicated translation namespace: %w", sentinel.ErrConflict)
	ErrResourceNotFound    = fmt.Errorf("translation resource not found: %w", sentinel.ErrNotFound)
)

// Error reports a failure about one (language, namespace) pair.
type Error struct {
	Title     string
	Lng       string
	Namespace string
	// Location is set for duplicates and names the rejected resource.
	Location string

	kind error
}

func newDuplicatedError(m ResourceMeta) *Error {
	return &Error{
		Title:     "duplicated_translation_namespace",
		Lng:       m.Lng.String(),
		Namespace: m.Namespace.String(),
		Location:  m.Location.String(),
		kind:      ErrDuplicatedNamespace,
	}
}

func newNotFoundError(k resourceKey) *Error {
	return &Error{
		Title:     "translation_resource_not_found",
		Lng:       k.lng,
		Namespace: k.ns.String(),
		kind:      ErrResourceNotFound,
	}
}

func (e *Error) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("%s (lng=%s ns=%s location=%s)", e.Title, e.Lng, e.Namespace, e.Location)
	}
	return fmt.Sprintf("%s (lng=%s ns=%s)", e.Title, e.Lng, e.Namespace)
}

func (e *Error) Unwrap() error {
	return e.kind
}

// ErrorCode implements domainerrors.Coder.
func (e *Error) ErrorCode() dErrors.Code {
	if e.kind == ErrDuplicatedNamespace {
		return dErrors.CodeConflict
	}
	return dErrors.CodeNotFound
}
