// Package valuerelay implements a single-value stale-while-revalidate handoff.
//
// A Relay holds one observable value that starts from a caller-supplied
// initial value and is transparently replaced by the result of a recurring
// asynchronous refresh once a refresh succeeds. A failed refresh never
// overwrites a previously good value, so a consumer reading the relay never
// observes an absence of data.
package valuerelay
