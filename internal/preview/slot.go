package preview

import (
	"imglab/internal/selection"
	"imglab/pkg/types"
)

// Slot owns at most one live handle. Every replacement releases the handle
// it supersedes.
type Slot struct {
	registry *Registry
	current  *Handle
}

// NewSlot creates an empty slot issuing handles from registry
func NewSlot(registry *Registry) *Slot {
	return &Slot{registry: registry}
}

// Replace creates a handle for the content and releases the previous one
func (s *Slot) Replace(name, mediaType string, data []byte) *Handle {
	return s.Install(s.registry.Create(name, mediaType, data))
}

// Install adopts h, created elsewhere from the same registry, and releases
// the previous handle
func (s *Slot) Install(h *Handle) *Handle {
	prev := s.current
	s.current = h
	if prev != nil && prev != h {
		prev.Release()
	}
	return h
}

// Release frees the held handle, leaving the slot empty
func (s *Slot) Release() {
	if s.current == nil {
		return
	}
	s.current.Release()
	s.current = nil
}

// Current returns the held handle, or nil
func (s *Slot) Current() *Handle {
	return s.current
}

// Ref returns the held reference, or ""
func (s *Slot) Ref() string {
	return s.current.Ref()
}

// Manager keeps the preview of the selected file. It subscribes to the
// store, so every selection change releases the old preview and, when a
// file is selected, creates a new one.
type Manager struct {
	slot *Slot
}

// NewManager binds a preview slot to store
func NewManager(registry *Registry, store *selection.Store) *Manager {
	m := &Manager{slot: NewSlot(registry)}
	if f := store.Current(); f != nil {
		m.sync(f)
	}
	store.Subscribe(func(c selection.Change) {
		m.sync(c.File)
	})
	return m
}

func (m *Manager) sync(file *types.SelectedFile) {
	if file == nil {
		m.slot.Release()
		return
	}
	m.slot.Replace(file.Name, file.MediaType, file.Data)
}

// Ref returns the preview reference of the selected file, or ""
func (m *Manager) Ref() string {
	return m.slot.Ref()
}

// Handle returns the live preview handle, or nil
func (m *Manager) Handle() *Handle {
	return m.slot.Current()
}

// Close releases the preview on teardown
func (m *Manager) Close() {
	m.slot.Release()
}
