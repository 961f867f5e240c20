package config

import (
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfigFromEnvironment(t *testing.T, vars map[string]string) (Config, error) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}

	mockLog := ldlogtest.NewMockLog()
	defer mockLog.DumpIfTestFailed(t)

	c := DefaultConfig
	err := LoadConfigFromEnvironment(&c, mockLog.Loggers)
	return c, err
}

func TestLoadConfigFromEnvironmentValid(t *testing.T) {
	c, err := loadConfigFromEnvironment(t, map[string]string{
		"PORT":                        "9000",
		"LOG_LEVEL":                   "warn",
		"VALUE_preorderCount":         "http://example.com/api/preorder/count",
		"POLL_INTERVAL_preorderCount": "2s",
		"INITIAL_preorderCount":       `{"count": 10}`,
	})
	require.NoError(t, err)

	assert.Equal(t, 9000, c.Main.Port)
	require.Contains(t, c.Value, "preorderCount")
	vc := c.Value["preorderCount"]
	assert.Equal(t, "http://example.com/api/preorder/count", vc.URI.String())
	assert.Equal(t, time.Second*2, vc.PollInterval.GetOrElse(0))
	assert.Equal(t, `{"count": 10}`, vc.Initial)
}

func TestLoadConfigFromEnvironmentRedis(t *testing.T) {
	c, err := loadConfigFromEnvironment(t, map[string]string{
		"USE_REDIS":           "true",
		"REDIS_TTL":           "45s",
		"VALUE_v":             "http://example.com/v",
		"INITIAL_REDIS_KEY_v": "snapshot:v",
	})
	require.NoError(t, err)
	assert.Equal(t, "redis://localhost:6379", c.Redis.URL.String())
	assert.Equal(t, time.Second*45, c.Redis.LocalTTL.GetOrElse(0))
}

func TestLoadConfigFromEnvironmentBadValueURI(t *testing.T) {
	_, err := loadConfigFromEnvironment(t, map[string]string{
		"VALUE_v": "::not a uri::",
	})
	assert.Error(t, err)
}

func TestLoadConfigFromEnvironmentValidationStillApplies(t *testing.T) {
	_, err := loadConfigFromEnvironment(t, map[string]string{
		"VALUE_v": "http://example.com/v",
		// no initial source configured
	})
	assert.Error(t, err)
}
