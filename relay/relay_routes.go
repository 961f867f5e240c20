package relay

import (
	"context"
	"net/http"

	"github.com/value-relay/value-relay/internal/logging"
	"github.com/value-relay/value-relay/internal/middleware"
	"github.com/value-relay/value-relay/internal/util"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/gorilla/mux"
)

const valueStreamLogMessage = "Client requested value stream"

type valueContextKeyType struct{}

var valueContextKey valueContextKeyType //nolint:gochecknoglobals

// makeRouter creates and configures a Router containing all of the standard routes for the service.
func (r *Relay) makeRouter() *mux.Router {
	router := mux.NewRouter()
	if r.loggers.GetMinLevel() == ldlog.Debug {
		router.Use(logging.RequestLoggerMiddleware(r.loggers))
	}

	router.Handle("/status", statusHandler(r)).Methods("GET")

	valuesRouter := router.PathPrefix("/values").Subrouter()
	valuesRouter.Use(r.selectValueByName)
	valuesRouter.Handle("/{name}", valueHandler()).Methods("GET")
	valuesRouter.Handle("/{name}/stream", middleware.Streaming(streamHandler(r, valueStreamLogMessage))).Methods("GET")

	return router
}

// selectValueByName is a middleware that resolves the {name} route variable to a configured
// value, rejecting requests for unknown names.
func (r *Relay) selectValueByName(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		name := mux.Vars(req)["name"]
		rv := r.getValue(name)
		if rv == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write(util.ErrorJSONMsgf("no such value %q", name))
			return
		}
		next.ServeHTTP(w, req.WithContext(context.WithValue(req.Context(), valueContextKey, rv)))
	})
}

func getValueFromContext(req *http.Request) *relayedValue {
	return req.Context().Value(valueContextKey).(*relayedValue)
}
