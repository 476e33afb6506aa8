package history

import (
	"encoding/json"
	"math"
)

// Validate checks the structure of an event. The returned error is a
// *MalformedEventError naming the offending field.
func Validate(e Event) error {
	if len(e.ID) != IDLength {
		return malformed("id", "should be %d characters long, got %d", IDLength, len(e.ID))
	}
	if !isLowerHex(e.ID) {
		return malformed("id", "should be lowercase hexadecimal, got %q", e.ID)
	}
	if e.Content == nil {
		return malformed("content", "should be a JSON object")
	}
	if !e.Type.Valid() {
		return malformed("type", "should be one of %v, got %q", EventTypes, e.Type)
	}
	return nil
}

// IsValid reports whether e passes Validate.
func IsValid(e Event) bool {
	return Validate(e) == nil
}

// ValidID reports whether id has the shape of an event fingerprint.
func ValidID(id string) bool {
	return len(id) == IDLength && isLowerHex(id)
}

func isLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// DecodeEvent converts an event in generic JSON form, as read back from
// storage, into an Event and validates it.
func DecodeEvent(raw any) (Event, error) {
	switch v := raw.(type) {
	case Event:
		return v.clone(), Validate(v)
	case *Event:
		if v == nil {
			return Event{}, malformed("event", "should be a JSON object")
		}
		return v.clone(), Validate(*v)
	}

	m, ok := asObject(raw)
	if !ok {
		return Event{}, malformed("event", "should be a JSON object, got %T", raw)
	}

	id, ok := m["id"].(string)
	if !ok {
		return Event{}, malformed("id", "should be a string, got %T", m["id"])
	}
	content, ok := asObject(m["content"])
	if !ok {
		return Event{}, malformed("content", "should be a JSON object, got %T", m["content"])
	}
	ts, ok := asInt(m["ts"])
	if !ok {
		return Event{}, malformed("ts", "should be an integer, got %v", m["ts"])
	}
	eventType, ok := m["type"].(string)
	if !ok {
		return Event{}, malformed("type", "should be a string, got %T", m["type"])
	}

	var user *string
	switch u := m["user"].(type) {
	case nil:
	case string:
		user = &u
	default:
		return Event{}, malformed("user", "should be a string or null, got %T", u)
	}

	e := Event{
		ID:      id,
		Type:    EventType(eventType),
		Content: content.Clone(),
		User:    user,
		TS:      ts,
	}
	return e, Validate(e)
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
