// Package httpsource implements the refresh source for values polled from an
// HTTP endpoint that returns JSON.
package httpsource

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

const logMsgWillRetry = "Refresh of %q failed (%s); will retry at next scheduled poll interval"

// Source issues refresh requests for a single value's URI. Its Fetch method
// has the signature that valuerelay.Relay expects from a refresh source.
type Source struct {
	name    string
	uri     string
	client  *http.Client
	loggers ldlog.Loggers
}

// NewSource creates a Source for the given URI. The client uses an in-memory
// caching transport, so an upstream that supports conditional requests is
// revalidated rather than re-downloaded on every poll. The timeout bounds the
// whole request; the polling loop itself never times out a fetch.
func NewSource(
	name string,
	uri string,
	timeout time.Duration,
	proxyURL *url.URL,
	loggers ldlog.Loggers,
) *Source {
	cachingTransport := httpcache.NewMemoryCacheTransport()
	if proxyURL != nil {
		cachingTransport.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}
	client := cachingTransport.Client()
	client.Timeout = timeout

	s := &Source{
		name:    name,
		uri:     uri,
		client:  client,
		loggers: loggers,
	}
	s.loggers.SetPrefix("[ValuePoller]")
	return s
}

// Fetch performs one refresh request. A network failure, a non-2xx response,
// and an unparseable body are all reported as errors; they are always
// recoverable, so the failure is logged at Warn level and the caller is
// expected to leave the previous value in place.
func (s *Source) Fetch(ctx context.Context) (ldvalue.Value, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.uri, nil)
	if err != nil {
		return ldvalue.Null(), err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.loggers.Warnf(logMsgWillRetry, s.name, err)
		return ldvalue.Null(), err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := httpStatusError{code: resp.StatusCode}
		s.loggers.Warnf(logMsgWillRetry, s.name, err)
		return ldvalue.Null(), err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.loggers.Warnf(logMsgWillRetry, s.name, err)
		return ldvalue.Null(), err
	}

	// ldvalue.Parse returns Null for unparseable input, so a null result that
	// isn't a literal JSON null means the body was malformed.
	value := ldvalue.Parse(body)
	if value.IsNull() && string(bytes.TrimSpace(body)) != "null" {
		err := malformedDataError{}
		s.loggers.Warnf(logMsgWillRetry, s.name, err)
		return ldvalue.Null(), err
	}
	return value, nil
}
