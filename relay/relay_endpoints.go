package relay

import (
	"net/http"

	"github.com/value-relay/value-relay/valuerelay"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

const (
	valueStateInitial   = "initial"
	valueStateRefreshed = "refreshed"
)

// ValueStateHeader reports, on the single-value endpoint, whether the response body is the
// configured initial value or a refreshed one.
const ValueStateHeader = "X-Value-State"

// Single-value polling endpoint: GET /values/{name}
func valueHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		rv := getValueFromContext(req)
		state := rv.relay.Current()
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set(ValueStateHeader, describeState(state))
		_, _ = w.Write([]byte(state.Value.JSONString()))
	})
}

// Streaming endpoint: GET /values/{name}/stream
func streamHandler(r *Relay, logMessage string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		rv := getValueFromContext(req)
		r.loggers.Debug(logMessage)
		r.publisher.Handler(rv.name)(w, req)
	})
}

func describeState(state valuerelay.State[ldvalue.Value]) string {
	if state.IsInitial {
		return valueStateInitial
	}
	return valueStateRefreshed
}
