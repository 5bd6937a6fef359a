// Package api is the HTTP surface of the study service: REST routes for quiz
// and flashcard sessions and a websocket endpoint for the streaming tutor.
// Handlers translate requests into session operations and session errors
// into status codes; they hold no state of their own beyond the registry.
package api
