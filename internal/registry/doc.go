// Package registry is the generic registry engine.
//
// A registry is an ordered collection of items that share one registry id and
// are unique by (registrant, identifier). A Group owns many registries keyed by
// registry id and creates new ones through a factory. Domains built on the
// engine (the event dispatcher, for one) supply their own ErrorTable so the
// four generic failure kinds surface under domain names without subclassing.
//
// # Items
//
// Anything exposing RegistryID, Registrant and Identifier can be stored. Embed
// Entry (or PriorityEntry) to get validated fields and accessors:
//
//	type Plugin struct {
//	    registry.Entry
//	    Run func()
//	}
//
// # Concurrency
//
// Registries and groups are not safe for concurrent mutation. Callers that add
// or remove from several goroutines must serialize those calls themselves.
// List returns a snapshot, so readers holding one are unaffected by later
// mutation.
//
// # Removal semantics
//
// Remove with a nil identifier removes every item of the registrant in one
// pass. Group.RemoveData applies that removal to every member registry and
// ignores registries where nothing matched. Group.RemoveRegistry drops a
// registry together with whatever it still holds.
package registry
