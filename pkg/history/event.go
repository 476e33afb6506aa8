package history

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// EventType is the kind of mutation an event records.
type EventType string

const (
	EventCreate EventType = "create"
	EventUpdate EventType = "update"
	// EventDelete is reserved: it validates but has no effect on content.
	EventDelete EventType = "delete"
)

// EventTypes lists the recognized event types.
var EventTypes = []EventType{EventCreate, EventUpdate, EventDelete}

// Valid reports whether t is a recognized event type.
func (t EventType) Valid() bool {
	switch t {
	case EventCreate, EventUpdate, EventDelete:
		return true
	}
	return false
}

// IDLength is the length of an event fingerprint: a hex-encoded SHA-1.
const IDLength = 2 * sha1.Size

// changesKey holds the patch inside an update event's content.
const changesKey = "changes"

// Event is an immutable record of one mutation to a content object.
type Event struct {
	ID      string    `json:"id"`
	Type    EventType `json:"type"`
	Content Content   `json:"content"`
	User    *string   `json:"user"`
	TS      int64     `json:"ts"`
}

// Changes returns the patch carried by an update event.
func (e Event) Changes() any {
	return e.Content[changesKey]
}

// Actor returns the acting user, or "" when none was recorded.
func (e Event) Actor() string {
	if e.User == nil {
		return ""
	}
	return *e.User
}

// Time returns the event timestamp.
func (e Event) Time() time.Time {
	return time.Unix(e.TS, 0)
}

func (e Event) clone() Event {
	out := e
	out.Content = e.Content.Clone()
	if e.User != nil {
		u := *e.User
		out.User = &u
	}
	return out
}

// ComputeID fingerprints an event from its own fields. The digest starts
// fresh on every call, so ids never depend on previously hashed events.
func ComputeID(eventType EventType, content Content, user *string, ts int64) (string, error) {
	payload, err := json.Marshal(struct {
		Type    EventType `json:"type"`
		Content Content   `json:"content"`
		User    *string   `json:"user"`
		TS      int64     `json:"ts"`
	}{eventType, content, user, ts})
	if err != nil {
		return "", fmt.Errorf("failed to encode event: %w", err)
	}

	h := sha1.New()
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Factory builds well-formed events.
type Factory struct {
	now func() time.Time
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithClock replaces the wall clock used to stamp events.
func WithClock(now func() time.Time) FactoryOption {
	return func(f *Factory) {
		f.now = now
	}
}

// NewFactory creates a Factory stamping events with the wall clock.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewEvent builds an event of the given type. content must encode to a JSON
// object; user may be empty.
func (f *Factory) NewEvent(eventType EventType, content any, user string) (Event, error) {
	if !eventType.Valid() {
		return Event{}, fmt.Errorf("%w: %q, should be one of %v", ErrInvalidEventType, eventType, EventTypes)
	}

	obj, err := toObject(content)
	if err != nil {
		return Event{}, err
	}

	var actor *string
	if user != "" {
		actor = &user
	}
	ts := f.now().Unix()

	id, err := ComputeID(eventType, obj, actor, ts)
	if err != nil {
		return Event{}, err
	}

	return Event{
		ID:      id,
		Type:    eventType,
		Content: obj,
		User:    actor,
		TS:      ts,
	}, nil
}

// MakeCreateEvent records the birth of content. It returns nil when content
// has no fields besides its history.
func (f *Factory) MakeCreateEvent(content Content, user string) (*Event, error) {
	past, err := content.History()
	if err != nil {
		return nil, err
	}
	if len(past) != 0 {
		return nil, fmt.Errorf("cannot create content with %d recorded events: %w", len(past), ErrNonEmptyHistory)
	}

	body := content.Without(HistoryKey)
	if len(body) == 0 {
		return nil, nil
	}

	e, err := f.NewEvent(EventCreate, body, user)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// MakeUpdateEvent records the forward transition from oldContent to
// newContent. History and attached files are left out of the comparison.
// It returns nil when nothing observable changed.
func (f *Factory) MakeUpdateEvent(oldContent, newContent Content, user string) (*Event, error) {
	before := oldContent.Without(HistoryKey, FilesKey)
	after := newContent.Without(HistoryKey, FilesKey)

	ops, err := Diff(before, after)
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return nil, nil
	}

	e, err := f.NewEvent(EventUpdate, Content{changesKey: ops}, user)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

var defaultFactory = NewFactory()

// NewEvent builds an event stamped with the wall clock.
func NewEvent(eventType EventType, content any, user string) (Event, error) {
	return defaultFactory.NewEvent(eventType, content, user)
}

// MakeCreateEvent is Factory.MakeCreateEvent using the wall clock.
func MakeCreateEvent(content Content, user string) (*Event, error) {
	return defaultFactory.MakeCreateEvent(content, user)
}

// MakeUpdateEvent is Factory.MakeUpdateEvent using the wall clock.
func MakeUpdateEvent(oldContent, newContent Content, user string) (*Event, error) {
	return defaultFactory.MakeUpdateEvent(oldContent, newContent, user)
}
