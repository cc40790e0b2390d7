// Package selection holds the file currently chosen by the user. It is the
// root of all derived state: previews and results subscribe to it and reset
// whenever it changes.
package selection

import (
	"imglab/internal/errors"
	"imglab/internal/log"
	"imglab/pkg/types"
)

// Change describes a selection update delivered to subscribers.
// File is nil after Clear.
type Change struct {
	File       *types.SelectedFile
	Generation uint64
}

// Store holds at most one selected file. It is owned by a single event
// loop and is not safe for concurrent use.
type Store struct {
	current     *types.SelectedFile
	generation  uint64
	subscribers []func(Change)
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// Subscribe registers fn to run after every Select and Clear, in
// registration order
func (s *Store) Subscribe(fn func(Change)) {
	s.subscribers = append(s.subscribers, fn)
}

// Select replaces the current selection unconditionally
func (s *Store) Select(file *types.SelectedFile) error {
	if file == nil {
		return errors.ErrNoFileSelected
	}
	if len(file.Data) == 0 {
		return errors.NewFileError("file has no content", file.Name, errors.EmptyPayload, nil)
	}

	s.current = file
	s.generation++
	log.LogWithFields(
		log.F("file", file.Name),
		log.F("media_type", file.MediaType),
		log.F("generation", s.generation),
	).Debug("file selected")
	s.notify()
	return nil
}

// Clear removes the selection
func (s *Store) Clear() {
	s.current = nil
	s.generation++
	log.LogWithFields(log.F("generation", s.generation)).Debug("selection cleared")
	s.notify()
}

// Current returns the selected file, or nil
func (s *Store) Current() *types.SelectedFile {
	return s.current
}

// HasFile reports whether a file is selected
func (s *Store) HasFile() bool {
	return s.current != nil
}

// Generation identifies the current selection. It increases on every
// Select and Clear, so a request tagged with an older generation belongs to
// a file that is no longer selected.
func (s *Store) Generation() uint64 {
	return s.generation
}

func (s *Store) notify() {
	change := Change{File: s.current, Generation: s.generation}
	for _, fn := range s.subscribers {
		fn(change)
	}
}
