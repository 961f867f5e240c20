package httpsource

import "fmt"

type httpStatusError struct {
	code int
}

func (e httpStatusError) Error() string {
	return fmt.Sprintf("HTTP error %d", e.code)
}

type malformedDataError struct{}

func (e malformedDataError) Error() string {
	return "the endpoint did not return valid JSON"
}

// IsStatusError returns the HTTP status code if the error came from a non-2xx
// response, so callers can distinguish endpoint errors from transport errors.
func IsStatusError(err error) (int, bool) {
	if se, ok := err.(httpStatusError); ok {
		return se.code, true
	}
	return 0, false
}
