// Package config contains the configuration surface for the value relay service.
//
// Configuration may come from a file, from environment variables, or both. The
// file format is the INI-like format handled by the gcfg package; environment
// variables are read with the go-configtypes VarReader. In either case a
// Config should be initialized with DefaultConfig first; the loaders run
// ValidateConfig themselves.
package config

import (
	"time"

	ct "github.com/launchdarkly/go-configtypes"
)

const (
	// DefaultPort is the port the service listens on if none is configured.
	DefaultPort = 8040

	// DefaultPollInterval is used for any relayed value that does not configure
	// its own interval.
	DefaultPollInterval = time.Second * 30

	// MinimumPollInterval is the lowest allowed poll interval. Values below it
	// are a configuration error rather than being silently raised, so that a
	// typo like "10ms" for "10s" is caught early.
	MinimumPollInterval = time.Millisecond * 100

	// DefaultFetchTimeout is the HTTP client timeout for refresh requests. The
	// polling loop itself has no timeout, so this is what keeps a hung
	// upstream from blocking a value's refresh schedule forever.
	DefaultFetchTimeout = time.Second * 10

	// DefaultHeartbeatInterval is the default interval for SSE keep-alive
	// comments on value streams.
	DefaultHeartbeatInterval = time.Minute * 3

	// DefaultSnapshotTTL is the expiry used when writing refreshed values back
	// to Redis, if no LocalTTL is configured.
	DefaultSnapshotTTL = time.Hour * 24
)

const (
	defaultRedisHost = "localhost"
	defaultRedisPort = 6379
)

// Config describes the configuration for a relay service instance.
//
// If you are embedding the service in your own code and configuring it
// programmatically, start from DefaultConfig and change only the fields you
// need.
type Config struct {
	Main  MainConfig
	Redis RedisConfig
	Proxy ProxyConfig
	Value map[string]*ValueConfig
}

// MainConfig contains global options.
//
// This corresponds to the [Main] section in the configuration file.
type MainConfig struct {
	Port                    int            `conf:"PORT"`
	ExitOnError             bool           `conf:"EXIT_ON_ERROR"`
	HeartbeatInterval       ct.OptDuration `conf:"HEARTBEAT_INTERVAL"`
	MaxClientConnectionTime ct.OptDuration `conf:"MAX_CLIENT_CONNECTION_TIME"`
	TLSEnabled              bool           `conf:"TLS_ENABLED"`
	TLSCert                 string         `conf:"TLS_CERT"`
	TLSKey                  string         `conf:"TLS_KEY"`
	LogLevel                OptLogLevel    `conf:"LOG_LEVEL"`
}

// RedisConfig configures the optional Redis snapshot cache. Redis is enabled
// if URL or Host is non-empty or Port is set; if only one of Host/Port is
// given, the other takes its default. It is an error to set Host or Port if
// URL is also set.
//
// This corresponds to the [Redis] section in the configuration file.
type RedisConfig struct {
	Host     string                   `conf:"REDIS_HOST"`
	Port     ct.OptIntGreaterThanZero `conf:"REDIS_PORT"`
	URL      ct.OptURLAbsolute        `conf:"REDIS_URL"`
	Password string                   `conf:"REDIS_PASSWORD"`
	TLS      bool                     `conf:"REDIS_TLS"`
	LocalTTL ct.OptDuration           `conf:"REDIS_TTL"`
}

// ProxyConfig configures an optional outbound HTTP proxy for refresh requests.
//
// This corresponds to the [Proxy] section in the configuration file.
type ProxyConfig struct {
	URL ct.OptURLAbsolute `conf:"PROXY_URL"`
}

// ValueConfig describes one relayed value.
//
// This corresponds to a [Value "name"] section in the configuration file. In
// environment variables, a value is declared with VALUE_<name>=<uri> and its
// other fields use the same variable names suffixed with _<name>.
type ValueConfig struct {
	URI          ct.OptURLAbsolute `conf:"URI"`
	PollInterval ct.OptDuration    `conf:"POLL_INTERVAL"`
	FetchTimeout ct.OptDuration    `conf:"FETCH_TIMEOUT"`

	// Exactly one of the three initial-value sources below must be set.
	//
	// Initial is a literal JSON value. In the configuration file, a value
	// containing double quotes must be written as a quoted string with the
	// inner quotes backslash-escaped, for example:
	//     initial = "{\"count\": 10}"
	Initial         string `conf:"INITIAL"`
	InitialFile     string `conf:"INITIAL_FILE"`
	InitialRedisKey string `conf:"INITIAL_REDIS_KEY"`

	// WriteThrough stores each successfully refreshed value back under
	// InitialRedisKey, so the next startup seeds from a fresher snapshot.
	WriteThrough bool `conf:"WRITE_THROUGH"`
}

// DefaultConfig is the baseline configuration before any file or environment
// values are applied.
var DefaultConfig = Config{
	Main: MainConfig{
		Port: DefaultPort,
	},
}

// Enabled reports whether any Redis connection parameter was configured.
func (c RedisConfig) Enabled() bool {
	return c.URL.IsDefined() || c.Host != "" || c.Port.IsDefined()
}
