package sharedtest

import (
	"net/http"
	"sync"

	"github.com/launchdarkly/eventsource"
)

type PublishedEvent struct {
	Channel string
	Event   eventsource.Event
}

type PublishedComment struct {
	Channel string
	Text    string
}

// TestPublisher is a mock implementation of the streams.Publisher interface that records published
// events instead of broadcasting them.
type TestPublisher struct {
	Events   []PublishedEvent
	Comments []PublishedComment
	Repos    map[string]eventsource.Repository
	lock     sync.Mutex
}

func (p *TestPublisher) Publish(channels []string, event eventsource.Event) {
	p.lock.Lock()
	defer p.lock.Unlock()
	for _, c := range channels {
		p.Events = append(p.Events, PublishedEvent{c, event})
	}
}

func (p *TestPublisher) PublishComment(channels []string, text string) {
	p.lock.Lock()
	defer p.lock.Unlock()
	for _, c := range channels {
		p.Comments = append(p.Comments, PublishedComment{c, text})
	}
}

func (p *TestPublisher) Register(channel string, repo eventsource.Repository) {
	if p.Repos == nil {
		p.Repos = make(map[string]eventsource.Repository)
	}
	p.Repos[channel] = repo
}

func (p *TestPublisher) Unregister(channel string, forceDisconnect bool) {
	delete(p.Repos, channel)
}

func (p *TestPublisher) Close() {}

func (p *TestPublisher) Handler(string) http.HandlerFunc { return nil }

func (p *TestPublisher) GetEvents() []PublishedEvent {
	p.lock.Lock()
	defer p.lock.Unlock()
	ret := make([]PublishedEvent, len(p.Events))
	copy(ret, p.Events)
	return ret
}

func (p *TestPublisher) GetComments() []PublishedComment {
	p.lock.Lock()
	defer p.lock.Unlock()
	ret := make([]PublishedComment, len(p.Comments))
	copy(ret, p.Comments)
	return ret
}
