// Package streams defines the SSE publishing layer. Each configured value has
// its own channel on a shared eventsource server; connecting clients first
// receive a "put" event replaying the current state, then further "put" events
// on every successful refresh and "refresh-error" events on failed ones.
package streams
