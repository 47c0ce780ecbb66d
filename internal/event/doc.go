// Package event turns the registry engine into an in-process event bus.
//
// A Dispatcher owns one EventRegistry per declared event name. Handlers are
// registry items keyed by (registrant, identifier) under that name. Emitting
// an event invokes every handler of the event concurrently and returns once
// all of them have finished. The first failing handler cancels the context
// the others were given and its error is returned.
//
// Every handler answers with a Future. Sync adapts a plain function by
// running it on its own goroutine; Async accepts a function that already
// returns one.
package event
