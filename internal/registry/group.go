package registry

import (
	"errors"
	"iter"
	"log/slog"
	"slices"

	"rrss/pkg/identifier"
)

// Factory builds the registry for a new registry id.
type Factory[R any] func(registryID identifier.Identifier) R

// Group owns registries keyed by registry id. Iteration follows registry
// creation order.
type Group[T Data, R Registry[T]] struct {
	registries map[identifier.Identifier]R
	order      []identifier.Identifier
	factory    Factory[R]

	errs   ErrorTable
	kind   string
	logger *slog.Logger
}

// NewGroup creates an empty group. Every registry created by AddRegistry comes
// from factory.
func NewGroup[T Data, R Registry[T]](factory Factory[R], opts ...Option) *Group[T, R] {
	o := newOptions(opts)
	return &Group[T, R]{
		registries: make(map[identifier.Identifier]R),
		factory:    factory,
		errs:       o.errs,
		kind:       o.kind,
		logger:     o.logger,
	}
}

// AddRegistry creates a registry through the factory. It fails with the
// DuplicatedRegistry kind when registryID is taken.
func (g *Group[T, R]) AddRegistry(registryID identifier.Identifier) error {
	if _, err := identifier.Parse(registryID.String()); err != nil {
		return err
	}
	if g.HasRegistry(registryID) {
		return g.errs.DuplicatedRegistry().WithRegistryInfo(registryID)
	}
	g.store(registryID, g.factory(registryID))
	return nil
}

// AddRegistryInstance stores a registry the caller built, for registry types
// the factory does not produce.
func (g *Group[T, R]) AddRegistryInstance(registry R) error {
	registryID := registry.RegistryID()
	if _, err := identifier.Parse(registryID.String()); err != nil {
		return err
	}
	if g.HasRegistry(registryID) {
		return g.errs.DuplicatedRegistry().WithRegistryInfo(registryID)
	}
	g.store(registryID, registry)
	return nil
}

func (g *Group[T, R]) store(registryID identifier.Identifier, registry R) {
	g.registries[registryID] = registry
	g.order = append(g.order, registryID)
	g.logger.Debug("registry added", "kind", g.kind, "registry", registryID)
}

func (g *Group[T, R]) HasRegistry(registryID identifier.Identifier) bool {
	_, ok := g.registries[registryID]
	return ok
}

// Registry resolves registryID, failing with the RegistryNotFound kind.
func (g *Group[T, R]) Registry(registryID identifier.Identifier) (R, error) {
	r, ok := g.registries[registryID]
	if !ok {
		var zero R
		return zero, g.errs.RegistryNotFound().WithRegistryInfo(registryID)
	}
	return r, nil
}

// RemoveRegistry drops the registry and everything still in it. Items are not
// inspected; drain the registry first if they matter.
func (g *Group[T, R]) RemoveRegistry(registryID identifier.Identifier) error {
	r, err := g.Registry(registryID)
	if err != nil {
		return err
	}
	delete(g.registries, registryID)
	g.order = slices.DeleteFunc(g.order, func(id identifier.Identifier) bool {
		return id == registryID
	})
	g.logger.Debug("registry removed",
		"kind", g.kind,
		"registry", registryID,
		"dropped_items", r.Len(),
	)
	return nil
}

// Registries iterates member registries in creation order.
func (g *Group[T, R]) Registries() iter.Seq[R] {
	return func(yield func(R) bool) {
		for _, id := range g.order {
			if !yield(g.registries[id]) {
				return
			}
		}
	}
}

// RegistryIDs returns the member registry ids in creation order.
func (g *Group[T, R]) RegistryIDs() []identifier.Identifier {
	return slices.Clone(g.order)
}

// Len returns the number of member registries.
func (g *Group[T, R]) Len() int {
	return len(g.registries)
}

// AddData adds item to the registry named by item.RegistryID().
func (g *Group[T, R]) AddData(item T) error {
	r, err := g.Registry(item.RegistryID())
	if err != nil {
		return err
	}
	return r.Add(item)
}

// RemoveData removes matching items from every member registry. Registries
// without a match are skipped, so the call succeeds even when nothing was
// removed anywhere. Errors of any other kind stop the sweep.
func (g *Group[T, R]) RemoveData(registrant identifier.Identifier, id *identifier.Identifier) error {
	for r := range g.Registries() {
		err := r.Remove(registrant, id)
		if err == nil || errors.Is(err, ErrRegistryDataNotFound) {
			continue
		}
		return err
	}
	return nil
}

// GetData looks item's key up in its registry.
func (g *Group[T, R]) GetData(item Data) (T, error) {
	r, err := g.Registry(item.RegistryID())
	if err != nil {
		var zero T
		return zero, err
	}
	return r.Get(item.Registrant(), item.Identifier())
}

// HasData reports whether item's key is stored in its registry. It fails only
// when the registry itself is missing.
func (g *Group[T, R]) HasData(item Data) (bool, error) {
	r, err := g.Registry(item.RegistryID())
	if err != nil {
		return false, err
	}
	id := item.Identifier()
	return r.Has(item.Registrant(), &id), nil
}

// ListData returns a snapshot of one registry.
func (g *Group[T, R]) ListData(registryID identifier.Identifier) ([]T, error) {
	r, err := g.Registry(registryID)
	if err != nil {
		return nil, err
	}
	return r.List(), nil
}

// ListAllData lazily walks every item of every registry. Each range over the
// returned sequence re-reads the current state.
func (g *Group[T, R]) ListAllData() iter.Seq[T] {
	return func(yield func(T) bool) {
		for r := range g.Registries() {
			for _, item := range r.List() {
				if !yield(item) {
					return
				}
			}
		}
	}
}

// Reset drops every registry.
func (g *Group[T, R]) Reset() {
	g.registries = make(map[identifier.Identifier]R)
	g.order = nil
	g.logger.Debug("registry group reset", "kind", g.kind)
}
