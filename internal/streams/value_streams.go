package streams

import (
	"time"

	"github.com/value-relay/value-relay/valuerelay"

	"github.com/launchdarkly/eventsource"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// ValueStreamsUpdates is an interface representing the kinds of updates we can publish to a value's
// stream. Other components that publish updates to ValueStreams should use this interface rather
// than the implementation type, both to clarify that they don't need other ValueStreams
// functionality and to simplify testing.
type ValueStreamsUpdates interface {
	SendStateUpdate(state valuerelay.State[ldvalue.Value])
	SendRefreshError(refreshErr valuerelay.RefreshError)
}

// StateQueries is the subset of relay methods that ValueStreams uses to read the current state of a
// value, for generating "put" replay events on new connections.
type StateQueries interface {
	Current() valuerelay.State[ldvalue.Value]
}

// ValueStreams encapsulates streaming behavior for one configured value. It implements the
// ValueStreamsUpdates interface.
type ValueStreams struct {
	publisher  Publisher
	channels   []string
	heartbeats *time.Ticker
}

type valueStreamRepository struct {
	queries StateQueries
}

// NewValueStreams creates an instance of ValueStreams and registers the value's channel in the
// shared eventsource server.
func NewValueStreams(
	publisher Publisher,
	queries StateQueries,
	name string,
	heartbeatInterval time.Duration,
) *ValueStreams {
	vs := &ValueStreams{
		publisher: publisher,
		channels:  []string{name},
	}

	publisher.Register(name, &valueStreamRepository{queries: queries})

	if heartbeatInterval > 0 {
		vs.heartbeats = time.NewTicker(heartbeatInterval)
		go func() {
			for range vs.heartbeats.C {
				vs.publisher.PublishComment(vs.channels, "")
			}
		}()
	}

	return vs
}

// SendStateUpdate broadcasts the new state after a successful refresh or re-seed.
func (vs *ValueStreams) SendStateUpdate(state valuerelay.State[ldvalue.Value]) {
	vs.publisher.Publish(vs.channels, MakePutEvent(state))
}

// SendRefreshError broadcasts an advisory event for a failed refresh. The previously published
// state stays in effect.
func (vs *ValueStreams) SendRefreshError(refreshErr valuerelay.RefreshError) {
	vs.publisher.Publish(vs.channels, MakeRefreshErrorEvent(refreshErr))
}

// Close shuts down all currently active streams for this value and releases its resources.
func (vs *ValueStreams) Close() error {
	if vs.heartbeats != nil {
		vs.heartbeats.Stop()
	}
	for _, channel := range vs.channels {
		vs.publisher.Unregister(channel, true)
	}
	return nil
}

func (r *valueStreamRepository) Replay(channel, id string) (out chan eventsource.Event) {
	out = make(chan eventsource.Event)
	go func() {
		defer close(out)
		out <- MakePutEvent(r.queries.Current())
	}()
	return
}
