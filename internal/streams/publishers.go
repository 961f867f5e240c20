package streams

import (
	"net/http"
	"time"

	"github.com/launchdarkly/eventsource"
)

// Publisher defines the interface for publishing SSE events. This interface exists so test code does
// not have to use a real eventsource.Server.
type Publisher interface {
	Handler(channel string) http.HandlerFunc
	Publish(channels []string, event eventsource.Event)
	PublishComment(channels []string, text string)
	Register(channel string, repo eventsource.Repository)
	Unregister(channel string, forceDisconnect bool)
	Close()
}

// NewSSEPublisher creates the eventsource.Server that all value channels share, with one
// channel registration per configured value.
func NewSSEPublisher(maxConnTime time.Duration) Publisher {
	s := eventsource.NewServer()
	s.Gzip = false
	s.AllowCORS = true
	s.ReplayAll = true
	s.MaxConnTime = maxConnTime
	return s
}
