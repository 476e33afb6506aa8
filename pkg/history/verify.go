package history

import "fmt"

// VerifyID recomputes the fingerprint of e from its own fields.
func VerifyID(e Event) error {
	id, err := ComputeID(e.Type, e.Content, e.User, e.TS)
	if err != nil {
		return err
	}
	if id != e.ID {
		return malformed("id", "%s does not match the event fingerprint %s", e.ID, id)
	}
	return nil
}

// Verify checks the integrity of a stored content object: every event is
// well formed and carries its own fingerprint, the history opens with a
// single create, and the stored fields equal the replayed head.
func Verify(c Content) error {
	events, err := c.History()
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return ErrHistoryNotStarted
	}

	seen := make(map[string]int, len(events))
	for i, e := range events {
		if err := Validate(e); err != nil {
			return fmt.Errorf("history[%d]: %w", i, err)
		}
		if err := VerifyID(e); err != nil {
			return fmt.Errorf("history[%d]: %w", i, err)
		}
		if j, dup := seen[e.ID]; dup {
			return fmt.Errorf("history[%d]: %w", i, malformed("id", "%s already used by history[%d]", e.ID, j))
		}
		seen[e.ID] = i

		switch {
		case i == 0 && e.Type != EventCreate:
			return fmt.Errorf("history[0] is a %s event: %w", e.Type, ErrHistoryNotStarted)
		case i > 0 && e.Type == EventCreate:
			return fmt.Errorf("history[%d] is a second create event: %w", i, ErrNonEmptyHistory)
		}
	}

	head, err := Head(events)
	if err != nil {
		return err
	}
	ops, err := Diff(head.Without(FilesKey), c.Without(HistoryKey, FilesKey))
	if err != nil {
		return err
	}
	if len(ops) != 0 {
		return fmt.Errorf("%w: %d pending changes since %s", ErrContentMismatch, len(ops), events[len(events)-1].ID)
	}
	return nil
}
