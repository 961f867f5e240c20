// Package relay contains the overall value relay service. It ties together the configuration,
// the per-value handoff primitives, the HTTP polling sources, the initial-value producers, and
// the SSE streams, and exposes everything through a single HTTP handler.
package relay
