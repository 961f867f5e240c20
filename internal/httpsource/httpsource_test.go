package httpsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v3/httphelpers"

	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTimeout = time.Second

func withSource(t *testing.T, handler http.Handler, action func(*Source)) {
	t.Helper()
	mockLog := ldlogtest.NewMockLog()
	defer mockLog.DumpIfTestFailed(t)

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		action(NewSource("testValue", server.URL, testTimeout, nil, mockLog.Loggers))
	})
}

func TestFetchParsesJSONResponse(t *testing.T) {
	handler := httphelpers.HandlerWithJSONResponse(map[string]int{"count": 12}, nil)
	withSource(t, handler, func(s *Source) {
		value, err := s.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 12, value.GetByKey("count").IntValue())
	})
}

func TestFetchSendsAcceptHeader(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithJSONResponse(map[string]int{}, nil))
	withSource(t, handler, func(s *Source) {
		_, err := s.Fetch(context.Background())
		require.NoError(t, err)
		req := <-requestsCh
		assert.Equal(t, "application/json", req.Request.Header.Get("Accept"))
	})
}

func TestFetchReportsHTTPStatusError(t *testing.T) {
	withSource(t, httphelpers.HandlerWithStatus(503), func(s *Source) {
		_, err := s.Fetch(context.Background())
		require.Error(t, err)
		code, ok := IsStatusError(err)
		assert.True(t, ok)
		assert.Equal(t, 503, code)
	})
}

func TestFetchReportsMalformedData(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(200, nil, []byte("that's not JSON"))
	withSource(t, handler, func(s *Source) {
		_, err := s.Fetch(context.Background())
		require.Error(t, err)
		_, ok := IsStatusError(err)
		assert.False(t, ok)
	})
}

func TestFetchAllowsJSONNull(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(200, nil, []byte("null"))
	withSource(t, handler, func(s *Source) {
		value, err := s.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, ldvalue.Null(), value)
	})
}

func TestFetchReportsNetworkError(t *testing.T) {
	mockLog := ldlogtest.NewMockLog()
	s := NewSource("testValue", "http://127.0.0.1:1/nothing-here", testTimeout, nil, mockLog.Loggers)
	_, err := s.Fetch(context.Background())
	assert.Error(t, err)
}

func TestFetchHonorsContextCancellation(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		<-req.Context().Done()
	})
	withSource(t, handler, func(s *Source) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s.Fetch(ctx)
		assert.Error(t, err)
	})
}
