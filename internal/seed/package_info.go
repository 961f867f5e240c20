// Package seed contains the initial-value producers: the mechanisms that
// supply the value a relayed value serves before its first successful refresh.
//
// A producer runs ahead of relay construction and hands over a single value.
// The file producer additionally keeps watching its snapshot file and replaces
// the initial value if the file changes before any refresh has landed; once a
// refresh succeeds, the polling loop is the only writer and file changes are
// ignored.
package seed
