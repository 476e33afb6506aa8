package history_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gihan9a/contentlog/pkg/history"
)

func buildChess(t *testing.T) history.Content {
	t.Helper()
	f := history.NewFactory(history.WithClock(fixedClock(1700000000)))
	content, _ := mustCreate(t, f, history.Content{"title": "Chess", "files": []any{"rules.pdf"}})
	content, _ = mustUpdate(t, f, content, history.Content{"title": "Chess", "players": 2})
	content, _ = mustUpdate(t, f, content, history.Content{"title": "Chess", "players": 2, "duration": "1h"})
	return content
}

// storedForm round-trips content through JSON the way a document store would.
func storedForm(t *testing.T, c history.Content) history.Content {
	t.Helper()
	var out history.Content
	require.NoError(t, json.Unmarshal([]byte(toJSON(t, c)), &out))
	return out
}

func TestVerify(t *testing.T) {
	content := buildChess(t)
	assert.NoError(t, history.Verify(content))
	assert.NoError(t, history.Verify(storedForm(t, content)))
}

func TestVerify_PendingEdit(t *testing.T) {
	content := buildChess(t)
	content["players"] = 4

	assert.ErrorIs(t, history.Verify(content), history.ErrContentMismatch)
}

func TestVerify_FilesIgnored(t *testing.T) {
	content := buildChess(t)
	content["files"] = []any{"rules.pdf", "board.png"}

	assert.NoError(t, history.Verify(content))
}

func TestVerify_TamperedEvent(t *testing.T) {
	content := storedForm(t, buildChess(t))
	events := content["history"].([]any)
	events[0].(map[string]any)["user"] = "mallory"

	assert.ErrorIs(t, history.Verify(content), history.ErrMalformedEvent)
}

func TestVerify_NoHistory(t *testing.T) {
	assert.ErrorIs(t, history.Verify(history.Content{"title": "Chess"}), history.ErrHistoryNotStarted)
}

func TestVerify_DoesNotStartWithCreate(t *testing.T) {
	content := buildChess(t)
	events, err := content.History()
	require.NoError(t, err)
	content["history"] = events[1:]

	assert.ErrorIs(t, history.Verify(content), history.ErrHistoryNotStarted)
}

func TestVerify_SecondCreate(t *testing.T) {
	content := buildChess(t)
	events, err := content.History()
	require.NoError(t, err)

	again, err := history.NewEvent(history.EventCreate, history.Content{"title": "Chess", "players": 2, "duration": "1h"}, "")
	require.NoError(t, err)
	content["history"] = append(events, again)

	assert.ErrorIs(t, history.Verify(content), history.ErrNonEmptyHistory)
}

func TestVerifyID(t *testing.T) {
	e := validEvent(t)
	assert.NoError(t, history.VerifyID(e))

	e.TS++
	assert.ErrorIs(t, history.VerifyID(e), history.ErrMalformedEvent)
}
