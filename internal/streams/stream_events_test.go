package streams

import (
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutEventForInitialState(t *testing.T) {
	event := MakePutEvent(testInitialState)

	assert.Equal(t, "put", event.Event())
	assert.Equal(t, "", event.Id())

	data := ldvalue.Parse([]byte(event.Data()))
	require.False(t, data.IsNull())
	assert.Equal(t, "initial", data.GetByKey("state").StringValue())
	assert.Equal(t, 10, data.GetByKey("value").GetByKey("count").IntValue())
}

func TestPutEventForRefreshedState(t *testing.T) {
	event := MakePutEvent(testRefreshedState)

	assert.Equal(t, "put", event.Event())

	data := ldvalue.Parse([]byte(event.Data()))
	require.False(t, data.IsNull())
	assert.Equal(t, "refreshed", data.GetByKey("state").StringValue())
	assert.Equal(t, 12, data.GetByKey("value").GetByKey("count").IntValue())
}

func TestPutEventDataIsMemoized(t *testing.T) {
	event := MakePutEvent(testInitialState)
	assert.Equal(t, event.Data(), event.Data())
}

func TestRefreshErrorEvent(t *testing.T) {
	refreshErr := makeRefreshError(fakeError)
	event := MakeRefreshErrorEvent(refreshErr)

	assert.Equal(t, "refresh-error", event.Event())

	data := ldvalue.Parse([]byte(event.Data()))
	require.False(t, data.IsNull())
	assert.Equal(t, "sorry", data.GetByKey("message").StringValue())
	assert.Equal(t, float64(ldtime.UnixMillisFromTime(refreshErr.Time)),
		data.GetByKey("time").Float64Value())
}
