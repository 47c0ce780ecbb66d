package translation

import (
	"context"
	"fmt"
	"io/fs"

	"golang.org/x/text/language"

	dErrors "rrss/pkg/domain-errors"
	"rrss/pkg/identifier"
)

// Location is where the content of a resource lives.
type Location interface {
	Read(ctx context.Context) ([]byte, error)
	String() string
}

// FSLocation reads a resource from a file system.
type FSLocation struct {
	FS   fs.FS
	Path string
}

func (l FSLocation) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(l.FS, l.Path)
}

func (l FSLocation) String() string {
	return "fs:" + l.Path
}

// ResourceMeta identifies one resource. Two metas with the same Lng and
// Namespace address the same resource regardless of Location.
type ResourceMeta struct {
	Lng       language.Tag
	Namespace identifier.Identifier
	Location  Location
}

// NewResourceMeta validates lng as a BCP 47 tag and ns against the identifier
// grammar.
func NewResourceMeta(lng, ns string, loc Location) (ResourceMeta, error) {
	tag, err := ParseLanguage(lng)
	if err != nil {
		return ResourceMeta{}, err
	}
	namespace, err := identifier.Parse(ns)
	if err != nil {
		return ResourceMeta{}, fmt.Errorf("namespace: %w", err)
	}
	if loc == nil {
		return ResourceMeta{}, dErrors.New(dErrors.CodeValidation, "resource location is required")
	}
	return ResourceMeta{Lng: tag, Namespace: namespace, Location: loc}, nil
}

// ParseLanguage parses a language code such as "en-US".
func ParseLanguage(lng string) (language.Tag, error) {
	tag, err := language.Parse(lng)
	if err != nil {
		return language.Und, dErrors.Wrap(err, dErrors.CodeValidation, fmt.Sprintf("language code %q", lng))
	}
	return tag, nil
}

func (m ResourceMeta) key() resourceKey {
	return resourceKey{lng: m.Lng.String(), ns: m.Namespace}
}

func (m ResourceMeta) String() string {
	return fmt.Sprintf("<TranslationResource[%s] ns=%s at=%s>", m.Lng, m.Namespace, m.Location)
}

type resourceKey struct {
	lng string
	ns  identifier.Identifier
}

func (k resourceKey) String() string {
	return k.lng + ":" + k.ns.String()
}

// Text references a translatable string handed to front ends. When
// Translate is false, Key is shown as-is.
type Text struct {
	Namespace identifier.Identifier `json:"ns"`
	Key       identifier.Identifier `json:"key"`
	Translate bool                  `json:"t"`
}

// NewText validates ns and key and marks the text for translation.
func NewText(ns, key string) (Text, error) {
	namespace, err := identifier.Parse(ns)
	if err != nil {
		return Text{}, fmt.Errorf("namespace: %w", err)
	}
	k, err := identifier.Parse(key)
	if err != nil {
		return Text{}, fmt.Errorf("key: %w", err)
	}
	return Text{Namespace: namespace, Key: k, Translate: true}, nil
}

// Literal returns a copy of t that front ends display without lookup.
func (t Text) Literal() Text {
	t.Translate = false
	return t
}
