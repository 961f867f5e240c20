package relay

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/value-relay/value-relay/config"
	"github.com/value-relay/value-relay/internal/httpsource"
	"github.com/value-relay/value-relay/internal/seed"
	"github.com/value-relay/value-relay/internal/streams"
	"github.com/value-relay/value-relay/internal/util"
	"github.com/value-relay/value-relay/internal/version"
	"github.com/value-relay/value-relay/valuerelay"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Relay represents the overall relay service application.
//
// It can also be referenced externally in order to embed the service into a customized
// application.
//
// This type deliberately exports no methods other than ServeHTTP and Close. Everything else is an
// implementation detail which is subject to change.
type Relay struct {
	http.Handler
	values     map[string]*relayedValue
	publisher  streams.Publisher
	snapshots  *seed.RedisSnapshots
	instanceID string
	version    string
	closed     bool
	lock       sync.Mutex
	config     config.Config
	loggers    ldlog.Loggers
}

// relayedValue ties together everything belonging to one configured value: the handoff
// primitive, the HTTP polling source, the SSE streams, and the optional snapshot producers.
type relayedValue struct {
	name            string
	uri             string
	relay           *valuerelay.Relay[ldvalue.Value]
	streams         *streams.ValueStreams
	source          *httpsource.Source
	fileManager     *seed.FileManager // nil unless seeded from a file
	snapshots       *seed.RedisSnapshots
	writeThroughKey string // empty unless write-through is enabled
	cancelPolling   valuerelay.CancelFunc
	closeCh         chan struct{}
	closeOnce       sync.Once

	statusLock  sync.Mutex
	lastRefresh ldtime.UnixMillisecondTime
	stale       bool
}

// NewRelay creates a new Relay given a configuration. It validates the configuration, seeds
// every configured value from its initial-value source, and starts the polling loops. If any
// value cannot be seeded, construction fails and everything built so far is torn down.
func NewRelay(c config.Config, loggers ldlog.Loggers) (*Relay, error) {
	var thingsToCleanUp util.CleanupTasks // keeps track of partially constructed things in case we exit early
	defer thingsToCleanUp.Run()

	if err := config.ValidateConfig(&c, loggers); err != nil { // in case a not-yet-validated Config was passed to NewRelay
		return nil, err
	}

	if c.Main.LogLevel.IsDefined() {
		loggers.SetMinLevel(c.Main.LogLevel.GetOrElse(ldlog.Info))
	}

	maxConnTime := c.Main.MaxClientConnectionTime.GetOrElse(0)
	heartbeatInterval := c.Main.HeartbeatInterval.GetOrElse(config.DefaultHeartbeatInterval)

	r := &Relay{
		values:     make(map[string]*relayedValue),
		publisher:  streams.NewSSEPublisher(maxConnTime),
		instanceID: uuid.New().String(),
		version:    version.Version,
		config:     c,
		loggers:    loggers,
	}
	thingsToCleanUp.AddFunc(r.publisher.Close)

	if c.Redis.Enabled() {
		snapshots, err := seed.NewRedisSnapshots(
			c.Redis.URL.Get(), // ValidateConfig has canonicalized Host/Port into URL
			c.Redis.Password,
			c.Redis.TLS,
			c.Redis.LocalTTL.GetOrElse(config.DefaultSnapshotTTL),
			loggers,
		)
		if err != nil {
			return nil, errNewRedisSnapshotsFailed(err)
		}
		r.snapshots = snapshots
		thingsToCleanUp.AddCloser(snapshots)
	}

	var proxyURL *url.URL
	if c.Proxy.URL.IsDefined() {
		proxyURL = c.Proxy.URL.Get()
	}

	for name, vc := range c.Value {
		rv, err := r.addValue(name, vc, proxyURL, heartbeatInterval)
		if err != nil {
			return nil, err
		}
		thingsToCleanUp.AddFunc(rv.close)
	}

	r.Handler = r.makeRouter()

	r.loggers.Infof("Relaying %d value(s), instance ID %s", len(r.values), r.instanceID)

	thingsToCleanUp.Clear()
	return r, nil
}

// Close shuts down the Relay, stopping all polling loops, file watchers, and stream
// connections.
//
// The Relay instance cannot be used after this method is called.
func (r *Relay) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.closed {
		return errAlreadyClosed
	}
	r.closed = true
	for _, rv := range r.values {
		rv.close()
	}
	r.publisher.Close()
	if r.snapshots != nil {
		return r.snapshots.Close()
	}
	return nil
}

func (r *Relay) addValue(
	name string,
	vc *config.ValueConfig,
	proxyURL *url.URL,
	heartbeatInterval time.Duration,
) (*relayedValue, error) {
	rv := &relayedValue{
		name:      name,
		uri:       vc.URI.Get().String(),
		snapshots: r.snapshots,
		closeCh:   make(chan struct{}),
	}

	switch {
	case vc.InitialFile != "":
		// The relay has to exist before the file manager so that later file changes have a
		// re-seed target, so it starts out with a placeholder that is immediately replaced.
		rv.relay = valuerelay.New(ldvalue.Null())
		fm, value, err := seed.NewFileManager(vc.InitialFile, rv.relay, 0, r.loggers)
		if err != nil {
			return nil, errSeedValueFailed(name, err)
		}
		rv.fileManager = fm
		rv.relay.ReSeed(value)
	case vc.InitialRedisKey != "":
		value, err := r.snapshots.Load(context.Background(), vc.InitialRedisKey)
		if err != nil {
			rv.close()
			return nil, errSeedValueFailed(name, err)
		}
		rv.relay = valuerelay.New(value)
	default:
		rv.relay = valuerelay.New(ldvalue.Parse([]byte(vc.Initial))) // ValidateConfig has ensured this is JSON
	}

	if vc.WriteThrough {
		rv.writeThroughKey = vc.InitialRedisKey
	}

	rv.streams = streams.NewValueStreams(r.publisher, rv.relay, name, heartbeatInterval)
	rv.source = httpsource.NewSource(name, rv.uri,
		vc.FetchTimeout.GetOrElse(config.DefaultFetchTimeout), proxyURL, r.loggers)

	stateCh, stateCancel := rv.relay.Subscribe()
	errCh, errCancel := rv.relay.SubscribeErrors()
	go rv.forwardUpdates(stateCh, errCh, stateCancel, errCancel)

	rv.cancelPolling = rv.relay.StartPolling(
		vc.PollInterval.GetOrElse(config.DefaultPollInterval), rv.source.Fetch)

	r.loggers.Infof("Serving value %s", rv.describe())
	r.values[name] = rv
	return rv, nil
}

func (r *Relay) getValue(name string) *relayedValue {
	return r.values[name] // the map is read-only after construction
}

// forwardUpdates pushes every relay state change and refresh failure out to the SSE streams,
// and maintains the bookkeeping that the status endpoint reports.
func (rv *relayedValue) forwardUpdates(
	stateCh <-chan valuerelay.State[ldvalue.Value],
	errCh <-chan valuerelay.RefreshError,
	cancelFns ...func(),
) {
	defer func() {
		for _, cancel := range cancelFns {
			cancel()
		}
	}()
	for {
		select {
		case <-rv.closeCh:
			return

		case state := <-stateCh:
			rv.streams.SendStateUpdate(state)
			if !state.IsInitial {
				rv.statusLock.Lock()
				rv.lastRefresh = ldtime.UnixMillisNow()
				rv.stale = false
				rv.statusLock.Unlock()
				if rv.writeThroughKey != "" {
					rv.snapshots.Store(context.Background(), rv.writeThroughKey, state.Value)
				}
			}

		case refreshErr := <-errCh:
			rv.streams.SendRefreshError(refreshErr)
			rv.statusLock.Lock()
			rv.stale = true
			rv.statusLock.Unlock()
		}
	}
}

func (rv *relayedValue) close() {
	rv.closeOnce.Do(func() {
		if rv.cancelPolling != nil {
			rv.cancelPolling()
		}
		if rv.fileManager != nil {
			rv.fileManager.Close()
		}
		if rv.streams != nil {
			_ = rv.streams.Close()
		}
		close(rv.closeCh)
	})
}

func (rv *relayedValue) describe() string {
	return fmt.Sprintf("%s (%s)", rv.name, rv.uri)
}
