package registry

import (
	"cmp"
	"slices"

	"rrss/pkg/identifier"
)

// PriorityRegistry keeps items sorted by descending priority. Items with equal
// priority stay in insertion order.
type PriorityRegistry[T PriorityData] struct {
	*ListRegistry[T]
}

// NewPriorityRegistry creates an empty priority-ordered registry.
func NewPriorityRegistry[T PriorityData](registryID identifier.Identifier, opts ...Option) *PriorityRegistry[T] {
	return &PriorityRegistry[T]{ListRegistry: NewListRegistry[T](registryID, opts...)}
}

// Add inserts item and re-sorts. O(n log n) per call.
func (r *PriorityRegistry[T]) Add(item T) error {
	if err := r.ListRegistry.Add(item); err != nil {
		return err
	}
	slices.SortStableFunc(r.items, func(a, b T) int {
		return cmp.Compare(b.Priority(), a.Priority())
	})
	return nil
}
