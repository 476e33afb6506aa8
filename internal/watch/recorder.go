package watch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gihan9a/contentlog/internal/config"
	"gihan9a/contentlog/internal/docfile"
	"gihan9a/contentlog/internal/store"
	"gihan9a/contentlog/internal/utils"
	"gihan9a/contentlog/pkg/history"

	"github.com/fsnotify/fsnotify"
)

// Recorder watches a directory of content documents and records every edit
// of their fields as an event in the document's own history.
type Recorder struct {
	config  *config.Config
	store   *store.Store
	hashes  map[string]string
	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

// NewRecorder creates a Recorder for cfg.Watch.RootDir
func NewRecorder(cfg *config.Config, st *store.Store) (*Recorder, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Recorder{
		config:  cfg,
		store:   st,
		hashes:  make(map[string]string),
		watcher: watcher,
	}, nil
}

// Close stops watching
func (r *Recorder) Close() error {
	return r.watcher.Close()
}

// SetupWatchers adds the root directory, and its subdirectories when
// recursive, to the watcher and records pending edits of existing documents.
func (r *Recorder) SetupWatchers() error {
	root := r.config.Watch.RootDir
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && !r.config.Watch.Recursive {
				return filepath.SkipDir
			}
			return r.watcher.Add(path)
		}
		if r.tracked(path) {
			if _, err := r.Record(path); err != nil {
				log.Printf("Error recording %s: %v", path, err)
			}
		}
		return nil
	})
}

// Run processes file changes until ctx is done or the watcher is closed.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			r.handleEvent(event)

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

func (r *Recorder) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create == fsnotify.Create && r.config.Watch.Recursive {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := r.watcher.Add(event.Name); err != nil {
				log.Printf("Error watching %s: %v", event.Name, err)
			}
			return
		}
	}

	// Only process writes of tracked documents
	if !r.tracked(event.Name) || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	log.Printf("File changed: %s", event.Name)
	if _, err := r.Record(event.Name); err != nil {
		log.Printf("Error recording %s: %v", event.Name, err)
	}
}

// Record compares the document at path with the state its history leads to
// and, when they differ, appends the matching create or update event and
// rewrites the document. It returns the recorded event, or nil.
func (r *Recorder) Record(path string) (*history.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	hash := utils.CalculateHash(data)
	if r.seen(path, hash) {
		return nil, nil
	}

	content, err := docfile.Decode(data)
	if err != nil {
		return nil, err
	}
	key, err := utils.ResourceID(r.config.Watch.RootDir, path, r.config.Watch.Extension)
	if err != nil {
		return nil, err
	}

	next, event, err := r.apply(key, content)
	if err != nil {
		return nil, err
	}
	if event == nil {
		r.remember(path, hash)
		return nil, nil
	}

	written, err := docfile.Write(path, next, r.config.History.Indent)
	if err != nil {
		return nil, err
	}
	r.remember(path, utils.CalculateHash(written))

	return event, nil
}

func (r *Recorder) apply(key string, content history.Content) (history.Content, *history.Event, error) {
	user := r.config.History.User

	events, err := content.History()
	if err != nil {
		return nil, nil, err
	}

	if len(events) == 0 {
		r.store.Remove(key)
		next, event, err := r.store.Create(key, content, user)
		if errors.Is(err, store.ErrEmpty) {
			return nil, nil, nil
		}
		return next, event, err
	}

	// the history, not the cached copy, is the source of truth for the base
	head, err := history.Head(events)
	if err != nil {
		return nil, nil, err
	}
	base := head.Without(history.FilesKey)
	base[history.HistoryKey] = events
	if files, ok := content[history.FilesKey]; ok {
		base[history.FilesKey] = files
	}
	if err := r.store.Put(key, base); err != nil {
		return nil, nil, err
	}

	return r.store.Update(key, content, user)
}

func (r *Recorder) tracked(path string) bool {
	name := filepath.Base(path)
	return strings.HasSuffix(name, r.config.Watch.Extension) && !strings.HasPrefix(name, docfile.TempFilePrefix)
}

func (r *Recorder) seen(path, hash string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hashes[path] == hash
}

func (r *Recorder) remember(path, hash string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hashes[path] = hash
}
