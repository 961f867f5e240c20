// Package sharedtest contains types and functions used by unit tests in multiple packages. Nothing
// in this package is used in non-test code.
package sharedtest
