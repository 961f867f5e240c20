package streams

import (
	"testing"
	"time"

	"github.com/value-relay/value-relay/internal/sharedtest"

	"github.com/launchdarkly/eventsource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorRegistersChannel(t *testing.T) {
	testPub := &sharedtest.TestPublisher{}
	vs := NewValueStreams(testPub, newMockStateQueries(testInitialState), testValueName, 0)
	require.NotNil(t, vs)
	defer vs.Close()

	assert.Len(t, testPub.Repos, 1)
	assert.NotNil(t, testPub.Repos[testValueName])
}

func TestReplaySendsCurrentState(t *testing.T) {
	testPub := &sharedtest.TestPublisher{}
	queries := newMockStateQueries(testInitialState)
	vs := NewValueStreams(testPub, queries, testValueName, 0)
	defer vs.Close()

	repo := testPub.Repos[testValueName]
	require.NotNil(t, repo)

	events := readAllEvents(t, repo.Replay(testValueName, ""))
	require.Len(t, events, 1)
	assert.Equal(t, MakePutEvent(testInitialState).Data(), events[0].Data())

	queries.setState(testRefreshedState)
	events = readAllEvents(t, repo.Replay(testValueName, ""))
	require.Len(t, events, 1)
	assert.Equal(t, MakePutEvent(testRefreshedState).Data(), events[0].Data())
}

func TestSendStateUpdate(t *testing.T) {
	testPub := &sharedtest.TestPublisher{}
	vs := NewValueStreams(testPub, newMockStateQueries(testInitialState), testValueName, 0)
	defer vs.Close()

	vs.SendStateUpdate(testRefreshedState)

	published := testPub.GetEvents()
	require.Len(t, published, 1)
	assert.Equal(t, testValueName, published[0].Channel)
	assert.Equal(t, "put", published[0].Event.Event())
	assert.Equal(t, MakePutEvent(testRefreshedState).Data(), published[0].Event.Data())
}

func TestSendRefreshError(t *testing.T) {
	testPub := &sharedtest.TestPublisher{}
	vs := NewValueStreams(testPub, newMockStateQueries(testInitialState), testValueName, 0)
	defer vs.Close()

	refreshErr := makeRefreshError(fakeError)
	vs.SendRefreshError(refreshErr)

	published := testPub.GetEvents()
	require.Len(t, published, 1)
	assert.Equal(t, testValueName, published[0].Channel)
	assert.Equal(t, "refresh-error", published[0].Event.Event())
	assert.Equal(t, MakeRefreshErrorEvent(refreshErr).Data(), published[0].Event.Data())
}

func TestHeartbeats(t *testing.T) {
	testPub := &sharedtest.TestPublisher{}
	vs := NewValueStreams(testPub, newMockStateQueries(testInitialState), testValueName, time.Millisecond*5)
	defer vs.Close()

	require.Eventually(t, func() bool {
		return len(testPub.GetComments()) >= 2
	}, time.Second, time.Millisecond)

	comments := testPub.GetComments()
	assert.Equal(t, sharedtest.PublishedComment{Channel: testValueName, Text: ""}, comments[0])
}

func TestCloseUnregistersChannel(t *testing.T) {
	testPub := &sharedtest.TestPublisher{}
	vs := NewValueStreams(testPub, newMockStateQueries(testInitialState), testValueName, 0)

	require.NoError(t, vs.Close())
	assert.Len(t, testPub.Repos, 0)
}

func readAllEvents(t *testing.T, ch chan eventsource.Event) []eventsource.Event {
	t.Helper()
	var ret []eventsource.Event
	timeout := time.After(time.Second)
	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return ret
			}
			ret = append(ret, event)
		case <-timeout:
			require.Fail(t, "timed out reading replayed events")
			return ret
		}
	}
}
