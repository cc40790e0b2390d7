// Package preview manages display references: ephemeral, revocable handles
// that let a front end render an in-memory image without writing it to
// disk. A Registry issues references, a Slot keeps at most one of them live,
// and a Manager ties a Slot to the current selection.
package preview

import (
	"sync"

	"imglab/internal/log"

	"github.com/google/uuid"
)

const refPrefix = "preview:"

// Entry is the content behind a display reference
type Entry struct {
	Name      string
	MediaType string
	Data      []byte
}

// Registry issues display references and resolves them back to content.
// It is safe for concurrent use: denoise completions create references on
// request goroutines while front ends resolve them on the event loop.
type Registry struct {
	mu      sync.Mutex
	entries map[string]Entry
	created int
	freed   int
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Create registers content and returns a live handle for it
func (r *Registry) Create(name, mediaType string, data []byte) *Handle {
	ref := refPrefix + uuid.NewString()

	r.mu.Lock()
	r.entries[ref] = Entry{Name: name, MediaType: mediaType, Data: data}
	r.created++
	r.mu.Unlock()

	log.LogWithFields(log.F("ref", ref), log.F("name", name)).Debug("display reference created")
	return &Handle{ref: ref, registry: r}
}

// Resolve returns the content behind ref while it is live
func (r *Registry) Resolve(ref string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[ref]
	return e, ok
}

// Live returns the number of references not yet released
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Stats returns how many references were created and released
func (r *Registry) Stats() (created, released int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.created, r.freed
}

func (r *Registry) release(ref string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[ref]; !ok {
		return false
	}
	delete(r.entries, ref)
	r.freed++
	log.LogWithFields(log.F("ref", ref)).Debug("display reference released")
	return true
}

// Handle is a single display reference
type Handle struct {
	ref      string
	registry *Registry
	once     sync.Once
}

// Ref returns the reference string front ends resolve through the registry
func (h *Handle) Ref() string {
	if h == nil {
		return ""
	}
	return h.ref
}

// Release frees the reference. It may be called any number of times; only
// the first call frees, and it reports whether this call did so.
func (h *Handle) Release() bool {
	if h == nil {
		return false
	}
	released := false
	h.once.Do(func() {
		released = h.registry.release(h.ref)
	})
	return released
}

// Live reports whether the reference has not been released
func (h *Handle) Live() bool {
	if h == nil {
		return false
	}
	_, ok := h.registry.Resolve(h.ref)
	return ok
}
