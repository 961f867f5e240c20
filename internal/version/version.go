// Package version contains the application version string.
package version

// Version is the version of the service. It is reported by the status endpoint and by the
// --version command-line flag.
const Version = "1.0.0"
