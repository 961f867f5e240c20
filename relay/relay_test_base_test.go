package relay

import (
	"testing"
	"time"

	"github.com/value-relay/value-relay/config"

	ct "github.com/launchdarkly/go-configtypes"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"

	"github.com/stretchr/testify/require"
)

const (
	testValueName   = "preorderCount"
	testInitialJSON = `{"count": 10}`

	// Long enough that polling never fires during tests that only care about the initial value.
	inertPollInterval = time.Hour

	// The shortest interval the configuration allows, for tests that wait for a refresh.
	fastPollInterval = time.Millisecond * 150
)

type relayTestParams struct {
	relay   *Relay
	mockLog *ldlogtest.MockLog
}

func mustOptURL(t *testing.T, urlString string) ct.OptURLAbsolute {
	t.Helper()
	opt, err := ct.NewOptURLAbsoluteFromString(urlString)
	require.NoError(t, err)
	return opt
}

func makeBasicConfig(t *testing.T, uri string, pollInterval time.Duration) config.Config {
	c := config.DefaultConfig
	c.Value = map[string]*config.ValueConfig{
		testValueName: {
			URI:          mustOptURL(t, uri),
			PollInterval: ct.NewOptDuration(pollInterval),
			Initial:      testInitialJSON,
		},
	}
	return c
}

func withStartedRelay(t *testing.T, c config.Config, action func(p relayTestParams)) {
	t.Helper()
	mockLog := ldlogtest.NewMockLog()
	defer mockLog.DumpIfTestFailed(t)

	r, err := NewRelay(c, mockLog.Loggers)
	require.NoError(t, err)
	defer r.Close()

	action(relayTestParams{relay: r, mockLog: mockLog})
}
