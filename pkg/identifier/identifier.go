// Package identifier implements the naming grammar shared by registry ids,
// registrants, item identifiers, event names and senders: one or more
// dot-separated segments of lowercase letters, digits and underscores.
package identifier

import (
	"errors"
	"fmt"

	"github.com/asaskevich/govalidator"

	dErrors "rrss/pkg/domain-errors"
)

// Pattern is the grammar every Identifier satisfies.
const Pattern = `^[a-z0-9_]+(\.[a-z0-9_]+)*$`

// ErrInvalid is wrapped by every validation failure from this package.
var ErrInvalid = errors.New("invalid identifier")

// Identifier is a validated dot-separated snake-case name such as
// "rrss.sys.plug.rate_limiter". The zero value is not a valid identifier.
type Identifier string

// Parse validates s and returns it as an Identifier.
func Parse(s string) (Identifier, error) {
	if !govalidator.Matches(s, Pattern) {
		return "", dErrors.Wrap(
			fmt.Errorf("%w: %q", ErrInvalid, s),
			dErrors.CodeValidation,
			"identifier must be dot-separated snake case",
		)
	}
	return Identifier(s), nil
}

// ParseOptional treats the empty string as "absent" and returns nil for it.
// Any other value must satisfy the grammar.
func ParseOptional(s string) (*Identifier, error) {
	if s == "" {
		return nil, nil
	}
	id, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// MustParse is Parse for compile-time constants; it panics on invalid input.
func MustParse(s string) Identifier {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Valid reports whether s satisfies the grammar.
func Valid(s string) bool {
	return govalidator.Matches(s, Pattern)
}

// String returns the identifier text.
func (id Identifier) String() string {
	return string(id)
}

// IsNil returns true for the zero value.
func (id Identifier) IsNil() bool {
	return id == ""
}

// Ptr returns a pointer to a copy of id, for APIs that take an optional
// identifier.
func (id Identifier) Ptr() *Identifier {
	return &id
}
