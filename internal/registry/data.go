package registry

import (
	"fmt"

	"rrss/pkg/identifier"
)

// Data is the capability every registry item exposes.
type Data interface {
	// RegistryID names the registry the item belongs to. For event handlers
	// this is the event name.
	RegistryID() identifier.Identifier
	Registrant() identifier.Identifier
	Identifier() identifier.Identifier
}

// PriorityData is Data ordered by a priority. Higher values come first.
type PriorityData interface {
	Data
	Priority() float64
}

// Entry is an embeddable, validated implementation of Data. Fields are
// unexported so an item cannot be re-keyed after insertion.
type Entry struct {
	registryID identifier.Identifier
	registrant identifier.Identifier
	id         identifier.Identifier
}

// NewEntry validates the three key fields against the identifier grammar.
func NewEntry(registryID, registrant, id string) (Entry, error) {
	rid, err := identifier.Parse(registryID)
	if err != nil {
		return Entry{}, fmt.Errorf("registry id: %w", err)
	}
	reg, err := identifier.Parse(registrant)
	if err != nil {
		return Entry{}, fmt.Errorf("registrant: %w", err)
	}
	ident, err := identifier.Parse(id)
	if err != nil {
		return Entry{}, fmt.Errorf("identifier: %w", err)
	}
	return Entry{registryID: rid, registrant: reg, id: ident}, nil
}

func (e Entry) RegistryID() identifier.Identifier { return e.registryID }
func (e Entry) Registrant() identifier.Identifier { return e.registrant }
func (e Entry) Identifier() identifier.Identifier { return e.id }

func (e Entry) String() string {
	return Describe("Registerable", e)
}

// PriorityEntry is Entry plus a priority, defaulting to 0.
type PriorityEntry struct {
	Entry
	priority float64
}

// NewPriorityEntry validates the key fields and records the priority.
func NewPriorityEntry(registryID, registrant, id string, priority float64) (PriorityEntry, error) {
	e, err := NewEntry(registryID, registrant, id)
	if err != nil {
		return PriorityEntry{}, err
	}
	return PriorityEntry{Entry: e, priority: priority}, nil
}

func (e PriorityEntry) Priority() float64 { return e.priority }

// Describe renders an item for logs, e.g. "<EventHandler[order.created] reg=svc.a id=h1>".
func Describe(kind string, d Data) string {
	return fmt.Sprintf("<%s[%s] reg=%s id=%s>", kind, d.RegistryID(), d.Registrant(), d.Identifier())
}

// matches applies the shared rule of Remove and Has: a nil id matches every
// item of the registrant.
func matches(d Data, registrant identifier.Identifier, id *identifier.Identifier) bool {
	if d.Registrant() != registrant {
		return false
	}
	return id == nil || d.Identifier() == *id
}
