package history

import "fmt"

// Replay rebuilds the content, without its history, as it stood right after
// the event selectedID. Events are folded in stored order from an empty
// object; every event on the way must be well formed.
func Replay(events []Event, selectedID string) (Content, error) {
	if len(selectedID) != IDLength {
		return nil, fmt.Errorf("%w: %q should be %d characters long", ErrInvalidID, selectedID, IDLength)
	}

	current := Content{}
	for i, e := range events {
		if err := Validate(e); err != nil {
			return nil, fmt.Errorf("history[%d]: %w", i, err)
		}

		switch e.Type {
		case EventCreate:
			current = e.Content.Without(HistoryKey)
		case EventUpdate:
			next, err := Apply(current, e.Changes())
			if err != nil {
				return nil, fmt.Errorf("history[%d] %s: %w", i, e.ID, err)
			}
			current = next
		case EventDelete:
			// reserved, leaves content untouched
		}

		if e.ID == selectedID {
			return current, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrEventNotFound, selectedID)
}

// Head rebuilds the content as of the last event of events.
func Head(events []Event) (Content, error) {
	if len(events) == 0 {
		return nil, ErrHistoryNotStarted
	}
	return Replay(events, events[len(events)-1].ID)
}

// ContentAt replays the history stored in c up to selectedID.
func ContentAt(c Content, selectedID string) (Content, error) {
	events, err := c.History()
	if err != nil {
		return nil, err
	}
	return Replay(events, selectedID)
}

// FindEvent returns the first event of events with the given id.
func FindEvent(events []Event, id string) (Event, bool) {
	for _, e := range events {
		if e.ID == id {
			return e.clone(), true
		}
	}
	return Event{}, false
}
