// Package events carries session lifecycle notifications from the study
// sessions to whoever wants to observe them (logging today, anything that
// implements EventHandler tomorrow).
//
// Sessions publish a SessionEvent on every state transition through an
// EventEmitter. They never wait on, or react to, handler failures: an event
// is a record of what happened, not a request.
//
// The primary components are:
// - SessionEvent: one state transition of one session
// - EventHandler: interface for components that consume events
// - EventEmitter: interface for components that publish events
// - InMemoryEventEmitter: synchronous fan-out to registered handlers
// - LogHandler: writes every event to a structured logger
package events
