package history_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gihan9a/contentlog/pkg/history"
)

// fixedClock returns a clock that ticks one second per call from start.
func fixedClock(start int64) func() time.Time {
	ts := start
	return func() time.Time {
		t := time.Unix(ts, 0)
		ts++
		return t
	}
}

func toJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func mustCreate(t *testing.T, f *history.Factory, c history.Content) (history.Content, history.Event) {
	t.Helper()
	e, err := f.MakeCreateEvent(c, "alice")
	require.NoError(t, err)
	require.NotNil(t, e)
	next, err := history.AppendEvent(c, *e)
	require.NoError(t, err)
	return next, *e
}

func mustUpdate(t *testing.T, f *history.Factory, prev, next history.Content) (history.Content, history.Event) {
	t.Helper()
	e, err := f.MakeUpdateEvent(prev, next, "bob")
	require.NoError(t, err)
	require.NotNil(t, e)
	out, err := history.AppendEvent(prev, *e)
	require.NoError(t, err)
	return out, *e
}
