package history_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gihan9a/contentlog/pkg/history"
)

func TestNewEvent(t *testing.T) {
	f := history.NewFactory(history.WithClock(fixedClock(1700000000)))

	e, err := f.NewEvent(history.EventCreate, history.Content{"title": "Chess"}, "alice")
	require.NoError(t, err)

	assert.Equal(t, history.EventCreate, e.Type)
	assert.Equal(t, int64(1700000000), e.TS)
	assert.Equal(t, "alice", e.Actor())
	assert.Len(t, e.ID, history.IDLength)
	assert.True(t, history.ValidID(e.ID))
	assert.JSONEq(t, `{"title":"Chess"}`, toJSON(t, e.Content))
}

func TestNewEvent_NoUser(t *testing.T) {
	e, err := history.NewEvent(history.EventCreate, history.Content{"a": 1}, "")
	require.NoError(t, err)
	assert.Nil(t, e.User)
	assert.Contains(t, toJSON(t, e), `"user":null`)
}

func TestNewEvent_InvalidType(t *testing.T) {
	_, err := history.NewEvent("rename", history.Content{"a": 1}, "")
	assert.ErrorIs(t, err, history.ErrInvalidEventType)
}

func TestNewEvent_InvalidContent(t *testing.T) {
	for name, content := range map[string]any{
		"nil":    nil,
		"string": "chess",
		"array":  []any{1, 2},
		"number": 42,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := history.NewEvent(history.EventCreate, content, "")
			assert.ErrorIs(t, err, history.ErrInvalidEventContent)
		})
	}
}

func TestNewEvent_AcceptsStructs(t *testing.T) {
	type game struct {
		Title   string `json:"title"`
		Players int    `json:"players"`
	}
	e, err := history.NewEvent(history.EventCreate, game{Title: "Go", Players: 2}, "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Go","players":2}`, toJSON(t, e.Content))
}

func TestNewEvent_Deterministic(t *testing.T) {
	content := history.Content{"title": "Chess", "tags": []any{"strategy", "classic"}}

	first := history.NewFactory(history.WithClock(fixedClock(1700000000)))
	a, err := first.NewEvent(history.EventCreate, content, "alice")
	require.NoError(t, err)

	// Hash unrelated events in between; they must not leak into later ids.
	noise := history.NewFactory()
	for i := 0; i < 5; i++ {
		_, err := noise.NewEvent(history.EventUpdate, history.Content{"i": i}, "mallory")
		require.NoError(t, err)
	}

	second := history.NewFactory(history.WithClock(fixedClock(1700000000)))
	b, err := second.NewEvent(history.EventCreate, content, "alice")
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)

	id, err := history.ComputeID(a.Type, a.Content, a.User, a.TS)
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)
}

func TestNewEvent_DistinctInputsDistinctIDs(t *testing.T) {
	f := history.NewFactory(history.WithClock(func() time.Time { return time.Unix(1700000000, 0) }))

	a, err := f.NewEvent(history.EventCreate, history.Content{"title": "Chess"}, "alice")
	require.NoError(t, err)
	b, err := f.NewEvent(history.EventCreate, history.Content{"title": "Chess"}, "bob")
	require.NoError(t, err)
	c, err := f.NewEvent(history.EventUpdate, history.Content{"title": "Chess"}, "alice")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestMakeCreateEvent(t *testing.T) {
	f := history.NewFactory(history.WithClock(fixedClock(1700000000)))

	src := history.Content{"title": "Chess", "history": []history.Event{}}
	e, err := f.MakeCreateEvent(src, "alice")
	require.NoError(t, err)
	require.NotNil(t, e)

	assert.Equal(t, history.EventCreate, e.Type)
	assert.JSONEq(t, `{"title":"Chess"}`, toJSON(t, e.Content))
	assert.Contains(t, src, "history", "caller content must not be modified")
}

func TestMakeCreateEvent_Empty(t *testing.T) {
	e, err := history.MakeCreateEvent(history.Content{}, "alice")
	require.NoError(t, err)
	assert.Nil(t, e)

	e, err = history.MakeCreateEvent(history.Content{"history": []any{}}, "alice")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestMakeCreateEvent_NonEmptyHistory(t *testing.T) {
	f := history.NewFactory()
	created, _ := mustCreate(t, f, history.Content{"title": "Chess"})

	_, err := f.MakeCreateEvent(created, "alice")
	assert.ErrorIs(t, err, history.ErrNonEmptyHistory)
}

func TestMakeUpdateEvent(t *testing.T) {
	f := history.NewFactory(history.WithClock(fixedClock(1700000000)))

	e, err := f.MakeUpdateEvent(
		history.Content{"title": "Chess"},
		history.Content{"title": "Chess", "players": 2},
		"bob",
	)
	require.NoError(t, err)
	require.NotNil(t, e)

	assert.Equal(t, history.EventUpdate, e.Type)
	assert.JSONEq(t, `[{"op":"add","path":"/players","value":2}]`, toJSON(t, e.Changes()))
}

func TestMakeUpdateEvent_IgnoresHousekeeping(t *testing.T) {
	old := history.Content{
		"title":   "Chess",
		"files":   []any{"rules.pdf"},
		"history": []any{},
	}
	updated := history.Content{
		"title": "Chess",
		"files": []any{"rules.pdf", "board.png"},
	}

	e, err := history.MakeUpdateEvent(old, updated, "bob")
	require.NoError(t, err)
	assert.Nil(t, e)

	e, err = history.MakeUpdateEvent(old, old, "bob")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestMakeUpdateEvent_KeyOrderInsensitive(t *testing.T) {
	a := history.Content{"a": 1, "b": map[string]any{"x": true, "y": false}}
	b := history.Content{"b": map[string]any{"y": false, "x": true}, "a": 1}

	e, err := history.MakeUpdateEvent(a, b, "")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestMakeUpdateEvent_MalformedHistoryIgnored(t *testing.T) {
	// history is stripped before diffing, so its shape does not matter here
	e, err := history.MakeUpdateEvent(history.Content{"history": "junk", "a": 1}, history.Content{"a": 2}, "")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.JSONEq(t, `[{"op":"replace","path":"/a","value":2}]`, toJSON(t, e.Changes()))
}
