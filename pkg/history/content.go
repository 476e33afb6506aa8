// Package history records every mutation of a JSON content object as an
// immutable, fingerprinted event and rebuilds the content as of any event by
// replaying its log from the start.
//
// A content object carries its own log under the reserved "history" key:
//
//	{
//	  "title": "Chess",
//	  "history": [
//	    {"id": "…", "type": "create", "content": {"title": "Chess"}, "user": null, "ts": 1700000000}
//	  ]
//	}
//
// Every function in this package is a pure transformation. Nothing is
// persisted and caller-owned values are never modified.
package history

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Reserved keys of a content object. Neither takes part in update diffs.
const (
	HistoryKey = "history"
	FilesKey   = "files"
)

// Content is a JSON object under version control.
type Content map[string]any

// Clone returns a deep copy of c.
func (c Content) Clone() Content {
	if c == nil {
		return nil
	}
	out := make(Content, len(c))
	for k, v := range c {
		out[k] = cloneValue(v)
	}
	return out
}

// Without returns a deep copy of c minus the given keys.
func (c Content) Without(keys ...string) Content {
	out := make(Content, len(c))
	for k, v := range c {
		out[k] = cloneValue(v)
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// History returns a copy of the events stored under the "history" key.
// It accepts both in-process event slices and the generic form produced by
// decoding a stored document.
func (c Content) History() ([]Event, error) {
	raw, ok := c[HistoryKey]
	if !ok || raw == nil {
		return nil, nil
	}

	switch h := raw.(type) {
	case []Event:
		events := make([]Event, len(h))
		for i, e := range h {
			events[i] = e.clone()
		}
		return events, nil
	case []any:
		events := make([]Event, 0, len(h))
		for i, item := range h {
			e, err := DecodeEvent(item)
			if err != nil {
				return nil, fmt.Errorf("history[%d]: %w", i, err)
			}
			events = append(events, e)
		}
		return events, nil
	default:
		return nil, malformed(HistoryKey, "should be a list of events, got %T", raw)
	}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Content:
		return t.Clone()
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, x := range t {
			m[k] = cloneValue(x)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, x := range t {
			s[i] = cloneValue(x)
		}
		return s
	case []Event:
		s := make([]Event, len(t))
		for i, e := range t {
			s[i] = e.clone()
		}
		return s
	default:
		return v
	}
}

// normalize turns any JSON-encodable value into its generic form
// (map[string]any, []any, json.Number, string, bool, nil).
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return decodeJSON(data)
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// toObject normalizes v and requires the result to be a JSON object.
func toObject(v any) (Content, error) {
	if v == nil {
		return nil, ErrInvalidEventContent
	}
	n, err := normalize(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEventContent, err)
	}
	m, ok := n.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidEventContent, n)
	}
	return Content(m), nil
}

func asObject(v any) (Content, bool) {
	switch t := v.(type) {
	case Content:
		return t, t != nil
	case map[string]any:
		return Content(t), t != nil
	default:
		return nil, false
	}
}
