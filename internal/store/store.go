package store

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"gihan9a/contentlog/pkg/history"
)

var (
	ErrNotFound = errors.New("content not found")
	ErrExists   = errors.New("content already exists")
	ErrEmpty    = errors.New("content has no fields to record")
	ErrConflict = errors.New("content changed since the expected revision")
)

// Store keeps versioned content objects in memory. Every read-modify-write
// runs under a single lock, so at most one append per object is in flight.
type Store struct {
	factory *history.Factory
	objects map[string]history.Content
	mu      sync.RWMutex
}

// New creates an empty Store stamping events with factory.
func New(factory *history.Factory) *Store {
	if factory == nil {
		factory = history.NewFactory()
	}
	return &Store{
		factory: factory,
		objects: make(map[string]history.Content),
	}
}

// Create records the birth of content under key.
func (s *Store) Create(key string, content history.Content, user string) (history.Content, *history.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.objects[key]; exists {
		return nil, nil, fmt.Errorf("%w: %s", ErrExists, key)
	}

	event, err := s.factory.MakeCreateEvent(content, user)
	if err != nil {
		return nil, nil, err
	}
	if event == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrEmpty, key)
	}

	next, err := history.AppendEvent(content, *event)
	if err != nil {
		return nil, nil, err
	}
	s.objects[key] = next

	log.Printf("Recorded create event %s for %s", event.ID, key)
	return next.Clone(), event, nil
}

// Update records the transition from the stored content to content. The
// returned event is nil when nothing observable changed.
func (s *Store) Update(key string, content history.Content, user string) (history.Content, *history.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(key, "", content, user)
}

// UpdateIf is Update guarded by a compare-and-swap on the id of the last
// recorded event. It fails with ErrConflict when another update landed first.
func (s *Store) UpdateIf(key, expectedHead string, content history.Content, user string) (history.Content, *history.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(key, expectedHead, content, user)
}

func (s *Store) update(key, expectedHead string, content history.Content, user string) (history.Content, *history.Event, error) {
	previous, exists := s.objects[key]
	if !exists {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	if expectedHead != "" {
		head, err := headID(previous)
		if err != nil {
			return nil, nil, err
		}
		if head != expectedHead {
			return nil, nil, fmt.Errorf("%w: %s is at %s, not %s", ErrConflict, key, head, expectedHead)
		}
	}

	event, err := s.factory.MakeUpdateEvent(previous, content, user)
	if err != nil {
		return nil, nil, err
	}

	var next history.Content
	if event == nil {
		next = previous.Clone()
	} else {
		next, err = history.AppendEvent(previous, *event)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Recorded update event %s for %s", event.ID, key)
	}

	// attached files are not tracked by the log, the latest list wins
	if files, ok := content[history.FilesKey]; ok {
		next[history.FilesKey] = files
	}
	s.objects[key] = next

	return next.Clone(), event, nil
}

// Put stores an existing content object as is, replacing any previous one.
// Its history must decode, but is not replayed.
func (s *Store) Put(key string, content history.Content) error {
	if _, err := content.History(); err != nil {
		return fmt.Errorf("invalid history for %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = content.Clone()
	return nil
}

// Get returns a copy of the content stored under key.
func (s *Store) Get(key string) (history.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, exists := s.objects[key]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return content.Clone(), nil
}

// Events returns the history of the content stored under key.
func (s *Store) Events(key string) ([]history.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, exists := s.objects[key]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return content.History()
}

// HeadID returns the id of the last event recorded for key.
func (s *Store) HeadID(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, exists := s.objects[key]
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return headID(content)
}

// Revision rebuilds the content stored under key as of eventID.
func (s *Store) Revision(key, eventID string) (history.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, exists := s.objects[key]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return history.ContentAt(content, eventID)
}

// Remove forgets the content stored under key.
func (s *Store) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func headID(content history.Content) (string, error) {
	events, err := content.History()
	if err != nil {
		return "", err
	}
	if len(events) == 0 {
		return "", history.ErrHistoryNotStarted
	}
	return events[len(events)-1].ID, nil
}
