package history

import "fmt"

// AppendEvent folds event into previous and returns the next content
// object: the fields after the event plus the extended history.
//
// A create event may only start a history, and any other event needs one to
// already exist.
func AppendEvent(previous Content, event Event) (Content, error) {
	if err := Validate(event); err != nil {
		return nil, err
	}

	past, err := previous.History()
	if err != nil {
		return nil, err
	}

	switch event.Type {
	case EventCreate:
		if len(past) != 0 {
			return nil, fmt.Errorf("cannot append create event %s: %w", event.ID, ErrNonEmptyHistory)
		}
	default:
		if len(past) == 0 {
			return nil, fmt.Errorf("cannot append %s event %s: %w", event.Type, event.ID, ErrHistoryNotStarted)
		}
	}

	next := previous.Without(HistoryKey)
	if event.Type == EventUpdate {
		next, err = Apply(next, event.Changes())
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", event.ID, err)
		}
	}

	next[HistoryKey] = append(past, event.clone())
	return next, nil
}
