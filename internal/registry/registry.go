package registry

import (
	"iter"
	"log/slog"
	"slices"

	"rrss/pkg/identifier"
)

// Registry is the contract a Group manages. ListRegistry and PriorityRegistry
// implement it; domains may wrap either to add behavior.
type Registry[T Data] interface {
	RegistryID() identifier.Identifier

	// Add appends item. It fails with the DuplicatedRegistryData kind when an
	// item with the same (registrant, identifier) is stored.
	Add(item T) error

	// Remove deletes the item matching (registrant, id), or every item of
	// registrant when id is nil. It fails with the RegistryDataNotFound kind
	// when nothing matched.
	Remove(registrant identifier.Identifier, id *identifier.Identifier) error

	Get(registrant, id identifier.Identifier) (T, error)
	Has(registrant identifier.Identifier, id *identifier.Identifier) bool

	// List returns a snapshot of the items in registry order.
	List() []T
	Len() int
}

// ListRegistry keeps items in insertion order.
type ListRegistry[T Data] struct {
	registryID identifier.Identifier
	items      []T

	errs   ErrorTable
	kind   string
	logger *slog.Logger
}

// NewListRegistry creates an empty registry named registryID.
func NewListRegistry[T Data](registryID identifier.Identifier, opts ...Option) *ListRegistry[T] {
	o := newOptions(opts)
	return &ListRegistry[T]{
		registryID: registryID,
		errs:       o.errs,
		kind:       o.kind,
		logger:     o.logger,
	}
}

func (r *ListRegistry[T]) RegistryID() identifier.Identifier {
	return r.registryID
}

func (r *ListRegistry[T]) Add(item T) error {
	id := item.Identifier()
	if r.Has(item.Registrant(), &id) {
		return r.errs.DuplicatedRegistryData().
			WithRegisterInfo(item.Registrant(), &id).
			WithRegistryInfo(r.registryID)
	}
	r.items = append(r.items, item)
	r.logger.Debug("registry item added",
		"kind", r.kind,
		"registry", r.registryID,
		"registrant", item.Registrant(),
		"identifier", id,
	)
	return nil
}

func (r *ListRegistry[T]) Remove(registrant identifier.Identifier, id *identifier.Identifier) error {
	// Full pass even when id is nil so every match goes in one call.
	kept := r.items[:0]
	removed := 0
	for _, item := range r.items {
		if matches(item, registrant, id) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	clear(r.items[len(kept):])
	r.items = kept

	if removed == 0 {
		return r.errs.RegistryDataNotFound().
			WithRegisterInfo(registrant, id).
			WithRegistryInfo(r.registryID)
	}
	r.logger.Debug("registry items removed",
		"kind", r.kind,
		"registry", r.registryID,
		"registrant", registrant,
		"removed", removed,
	)
	return nil
}

func (r *ListRegistry[T]) Get(registrant, id identifier.Identifier) (T, error) {
	for _, item := range r.items {
		if matches(item, registrant, &id) {
			return item, nil
		}
	}
	var zero T
	return zero, r.errs.RegistryDataNotFound().
		WithRegisterInfo(registrant, &id).
		WithRegistryInfo(r.registryID)
}

func (r *ListRegistry[T]) Has(registrant identifier.Identifier, id *identifier.Identifier) bool {
	return slices.ContainsFunc(r.items, func(item T) bool {
		return matches(item, registrant, id)
	})
}

func (r *ListRegistry[T]) List() []T {
	return slices.Clone(r.items)
}

// All iterates the stored items in registry order. Mutating the registry
// while ranging is not supported.
func (r *ListRegistry[T]) All() iter.Seq[T] {
	return slices.Values(r.items)
}

func (r *ListRegistry[T]) Len() int {
	return len(r.items)
}
