package registry

import (
	"fmt"
	"strings"

	dErrors "rrss/pkg/domain-errors"
	"rrss/pkg/identifier"
	"rrss/pkg/platform/sentinel"
)

// Kind is one of the four generic failure kinds of the engine.
type Kind string

const (
	KindRegistryNotFound       Kind = "registry_not_found"
	KindDuplicatedRegistry     Kind = "duplicated_registry"
	KindRegistryDataNotFound   Kind = "registry_data_not_found"
	KindDuplicatedRegistryData Kind = "duplicated_registry_data"
)

// Kind sentinels. Every *Error matches exactly one of these with errors.Is,
// whatever ErrorTable produced it, and through them the infrastructure facts
// in sentinel.
var (
	ErrRegistryNotFound       = fmt.Errorf("registry not found: %w", sentinel.ErrNotFound)
	ErrDuplicatedRegistry     = fmt.Errorf("registry already exists: %w", sentinel.ErrConflict)
	ErrRegistryDataNotFound   = fmt.Errorf("registry data not found: %w", sentinel.ErrNotFound)
	ErrDuplicatedRegistryData = fmt.Errorf("registry data already exists: %w", sentinel.ErrConflict)
)

var kindErrors = map[Kind]error{
	KindRegistryNotFound:       ErrRegistryNotFound,
	KindDuplicatedRegistry:     ErrDuplicatedRegistry,
	KindRegistryDataNotFound:   ErrRegistryDataNotFound,
	KindDuplicatedRegistryData: ErrDuplicatedRegistryData,
}

// Error is the engine's error value. Tables build a bare instance; the
// operation that fails enriches it with whatever context it has through the
// chainable With* setters.
type Error struct {
	Kind  Kind
	Title string

	RegistryID identifier.Identifier
	Registrant identifier.Identifier
	// Identifier is empty when the failing call addressed every item of
	// Registrant.
	Identifier identifier.Identifier

	domain error
}

// NewError builds an Error of kind. domain, when non-nil, is an additional
// sentinel the error matches, letting a domain expose names such as
// ErrHandlerNotFound.
func NewError(kind Kind, title string, domain error) *Error {
	return &Error{Kind: kind, Title: title, domain: domain}
}

// WithRegisterInfo records the (registrant, identifier) the call addressed.
func (e *Error) WithRegisterInfo(registrant identifier.Identifier, id *identifier.Identifier) *Error {
	e.Registrant = registrant
	if id != nil {
		e.Identifier = *id
	} else {
		e.Identifier = ""
	}
	return e
}

// WithRegistryInfo records the registry id the call addressed.
func (e *Error) WithRegistryInfo(registryID identifier.Identifier) *Error {
	e.RegistryID = registryID
	return e
}

func (e *Error) Error() string {
	var ctx []string
	if e.RegistryID != "" {
		ctx = append(ctx, "registry="+e.RegistryID.String())
	}
	if e.Registrant != "" {
		ctx = append(ctx, "registrant="+e.Registrant.String())
	}
	if e.Identifier != "" {
		ctx = append(ctx, "identifier="+e.Identifier.String())
	}
	if len(ctx) == 0 {
		return e.Title
	}
	return e.Title + " (" + strings.Join(ctx, " ") + ")"
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.domain != nil {
		errs = append(errs, e.domain)
	}
	if k, ok := kindErrors[e.Kind]; ok {
		errs = append(errs, k)
	}
	return errs
}

// ErrorCode implements domainerrors.Coder.
func (e *Error) ErrorCode() dErrors.Code {
	switch e.Kind {
	case KindRegistryNotFound, KindRegistryDataNotFound:
		return dErrors.CodeNotFound
	case KindDuplicatedRegistry, KindDuplicatedRegistryData:
		return dErrors.CodeConflict
	default:
		return dErrors.CodeInternal
	}
}

// ErrorTable maps the four generic kinds to constructors. Each call must
// return a fresh instance since callers enrich it in place.
type ErrorTable struct {
	RegistryNotFound       func() *Error
	DuplicatedRegistry     func() *Error
	RegistryDataNotFound   func() *Error
	DuplicatedRegistryData func() *Error
}

// DefaultErrorTable produces errors titled after the generic kinds.
func DefaultErrorTable() ErrorTable {
	return ErrorTable{
		RegistryNotFound: func() *Error {
			return NewError(KindRegistryNotFound, "registry_not_found", nil)
		},
		DuplicatedRegistry: func() *Error {
			return NewError(KindDuplicatedRegistry, "registry_already_exists", nil)
		},
		RegistryDataNotFound: func() *Error {
			return NewError(KindRegistryDataNotFound, "registry_data_not_found", nil)
		},
		DuplicatedRegistryData: func() *Error {
			return NewError(KindDuplicatedRegistryData, "registry_data_already_exists", nil)
		},
	}
}

// withDefaults fills constructors the caller left nil.
func (t ErrorTable) withDefaults() ErrorTable {
	def := DefaultErrorTable()
	if t.RegistryNotFound == nil {
		t.RegistryNotFound = def.RegistryNotFound
	}
	if t.DuplicatedRegistry == nil {
		t.DuplicatedRegistry = def.DuplicatedRegistry
	}
	if t.RegistryDataNotFound == nil {
		t.RegistryDataNotFound = def.RegistryDataNotFound
	}
	if t.DuplicatedRegistryData == nil {
		t.DuplicatedRegistryData = def.DuplicatedRegistryData
	}
	return t
}
