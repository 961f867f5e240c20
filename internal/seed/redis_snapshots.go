package seed

import (
	"bytes"
	"context"
	"crypto/tls"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// kvClient is the subset of the go-redis client that RedisSnapshots uses,
// separated out so tests do not need a running Redis server.
type kvClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisSnapshots loads initial values from Redis keys and, for values
// configured with write-through, stores each refreshed value back so that the
// next startup seeds from a fresher snapshot.
type RedisSnapshots struct {
	client  kvClient
	closer  func() error
	ttl     time.Duration
	loggers ldlog.Loggers
}

// NewRedisSnapshots connects to Redis using the canonicalized URL from the
// configuration. The connection is verified with a ping so that a bad address
// is a startup error rather than a per-value seeding failure.
func NewRedisSnapshots(
	redisURL *url.URL,
	password string,
	useTLS bool,
	ttl time.Duration,
	loggers ldlog.Loggers,
) (*RedisSnapshots, error) {
	opts, err := redis.ParseURL(redisURL.String())
	if err != nil {
		return nil, err
	}
	if password != "" {
		opts.Password = password
	}
	if useTLS && opts.TLSConfig == nil {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	rs := newRedisSnapshots(client, ttl, loggers)
	rs.closer = client.Close
	rs.loggers.Infof("Using Redis snapshot store at %s", redisURL.Redacted())
	return rs, nil
}

func newRedisSnapshots(client kvClient, ttl time.Duration, loggers ldlog.Loggers) *RedisSnapshots {
	rs := &RedisSnapshots{
		client:  client,
		ttl:     ttl,
		loggers: loggers,
	}
	rs.loggers.SetPrefix("[RedisSnapshots]")
	return rs
}

// Load reads the snapshot stored under the given key. A missing key or a
// non-JSON payload is an error; the caller has nothing to seed with.
func (rs *RedisSnapshots) Load(ctx context.Context, key string) (ldvalue.Value, error) {
	data, err := rs.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ldvalue.Null(), errNoSnapshot(key)
	}
	if err != nil {
		return ldvalue.Null(), err
	}
	value := ldvalue.Parse(data)
	if value.IsNull() && string(bytes.TrimSpace(data)) != "null" {
		return ldvalue.Null(), errSnapshotNotJSON(key)
	}
	return value, nil
}

// Store writes a refreshed value back under the given key. Failures are logged
// and otherwise ignored; the snapshot is an optimization, not a source of
// truth.
func (rs *RedisSnapshots) Store(ctx context.Context, key string, value ldvalue.Value) {
	if err := rs.client.Set(ctx, key, value.JSONString(), rs.ttl).Err(); err != nil {
		rs.loggers.Warnf(logMsgWriteThroughFailed, key, err)
	}
}

// Close releases the Redis connection.
func (rs *RedisSnapshots) Close() error {
	if rs.closer != nil {
		return rs.closer()
	}
	return nil
}
