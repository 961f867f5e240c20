package streams

import (
	"errors"
	"sync"
	"time"

	"github.com/value-relay/value-relay/valuerelay"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

const testValueName = "preorderCount"

var (
	fakeError        = errors.New("sorry")
	testInitialState = valuerelay.State[ldvalue.Value]{
		Value:     ldvalue.Parse([]byte(`{"count": 10}`)),
		IsInitial: true,
	}
	testRefreshedState = valuerelay.State[ldvalue.Value]{
		Value: ldvalue.Parse([]byte(`{"count": 12}`)),
	}
)

type mockStateQueries struct {
	state valuerelay.State[ldvalue.Value]
	lock  sync.Mutex
}

func newMockStateQueries(state valuerelay.State[ldvalue.Value]) *mockStateQueries {
	return &mockStateQueries{state: state}
}

func (q *mockStateQueries) Current() valuerelay.State[ldvalue.Value] {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.state
}

func (q *mockStateQueries) setState(state valuerelay.State[ldvalue.Value]) {
	q.lock.Lock()
	defer q.lock.Unlock()
	q.state = state
}

func makeRefreshError(err error) valuerelay.RefreshError {
	return valuerelay.RefreshError{Err: err, Time: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}
