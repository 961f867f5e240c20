package streams

import (
	"github.com/value-relay/value-relay/internal/util"
	"github.com/value-relay/value-relay/valuerelay"

	"github.com/launchdarkly/eventsource"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// This file defines the format for all SSE events published on value streams. Its functions are
// normally only used by the streams package, but they are exported for testing.

// We use StringMemoizer for these events because the same event may get broadcast to many connected
// clients, and the SSE server code will call the event's Data() method again for each client-- but
// sometimes there aren't any connected clients at all, in which case we don't want to bother with
// computing a bunch of JSON output.

type deferredEvent struct {
	name   string
	result *util.StringMemoizer
}

func (e deferredEvent) Event() string { return e.name }
func (e deferredEvent) Id() string    { return "" } //nolint:golint,stylecheck
func (e deferredEvent) Data() string  { return e.result.Get() }

// MakePutEvent creates a "put" event carrying the full current state of a value. This is both the
// replay event for new stream connections and the update event after each successful refresh.
func MakePutEvent(state valuerelay.State[ldvalue.Value]) eventsource.Event {
	return deferredEvent{
		name:   "put",
		result: util.NewStringMemoizer(encodePutEventData(state)),
	}
}

// MakeRefreshErrorEvent creates a "refresh-error" event. These are advisory: the previously
// published state remains valid, clients just learn that it may be stale.
func MakeRefreshErrorEvent(refreshErr valuerelay.RefreshError) eventsource.Event {
	return deferredEvent{
		name:   "refresh-error",
		result: util.NewStringMemoizer(encodeRefreshErrorEventData(refreshErr)),
	}
}

func encodePutEventData(state valuerelay.State[ldvalue.Value]) func() string {
	return func() string {
		w := jwriter.NewWriter()
		obj := w.Object()
		obj.Name("state").String(stateName(state))
		state.Value.WriteToJSONWriter(obj.Name("value"))
		obj.End()
		return string(w.Bytes())
	}
}

func encodeRefreshErrorEventData(refreshErr valuerelay.RefreshError) func() string {
	return func() string {
		w := jwriter.NewWriter()
		obj := w.Object()
		obj.Name("message").String(refreshErr.Err.Error())
		obj.Name("time").Float64(float64(ldtime.UnixMillisFromTime(refreshErr.Time)))
		obj.End()
		return string(w.Bytes())
	}
}

func stateName(state valuerelay.State[ldvalue.Value]) string {
	if state.IsInitial {
		return "initial"
	}
	return "refreshed"
}
