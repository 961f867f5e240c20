package relay

import (
	"encoding/json"
	"net/http"

	"github.com/value-relay/value-relay/internal/api"

	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
)

const (
	statusRelayHealthy  = "healthy"
	statusRelayDegraded = "degraded"
)

// Status endpoint: GET /status
//
// The service is "degraded" if any value's most recent refresh attempt failed. The value is
// still being served in that case, it just may be stale.
func statusHandler(relay *Relay) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := api.StatusRep{
			Values:     make(map[string]api.ValueStatusRep),
			Version:    relay.version,
			InstanceID: relay.instanceID,
		}

		healthy := true
		for name, rv := range relay.values {
			rep := rv.statusRep()
			if rep.Stale {
				healthy = false
			}
			resp.Values[name] = rep
		}

		if healthy {
			resp.Status = statusRelayHealthy
		} else {
			resp.Status = statusRelayDegraded
		}

		data, _ := json.Marshal(resp)
		_, _ = w.Write(data)
	})
}

func (rv *relayedValue) statusRep() api.ValueStatusRep {
	state := rv.relay.Current()

	rv.statusLock.Lock()
	lastRefresh, stale := rv.lastRefresh, rv.stale
	rv.statusLock.Unlock()

	rep := api.ValueStatusRep{
		URI:         rv.uri,
		State:       describeState(state),
		Stale:       stale,
		LastRefresh: lastRefresh,
	}
	if refreshErr, ok := rv.relay.LastError(); ok {
		rep.LastError = &api.RefreshErrorRep{
			Message: refreshErr.Err.Error(),
			Time:    ldtime.UnixMillisFromTime(refreshErr.Time),
		}
	}
	return rep
}
