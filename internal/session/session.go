// Package session owns the state of one user session: the selected file,
// its preview, the operation results and the orchestrator that produces
// them. A Session is driven by a single event loop. Only Execute may run
// elsewhere.
package session

import (
	"context"

	"imglab/internal/config"
	"imglab/internal/inference"
	"imglab/internal/log"
	"imglab/internal/orchestrator"
	"imglab/internal/preview"
	"imglab/internal/presenter"
	"imglab/internal/selection"
	"imglab/pkg/types"
)

// Session wires selection, previews, orchestration and presentation
type Session struct {
	store        *selection.Store
	registry     *preview.Registry
	previews     *preview.Manager
	orchestrator *orchestrator.Orchestrator

	denoisedSlot   *preview.Slot
	classification *types.ClassificationResult
	denoised       *types.DenoisedImage
	errs           map[types.Operation]error

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a session backed by service
func New(service orchestrator.Service) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	registry := preview.NewRegistry()
	store := selection.NewStore()

	s := &Session{
		store:        store,
		registry:     registry,
		previews:     preview.NewManager(registry, store),
		orchestrator: orchestrator.New(service, registry),
		denoisedSlot: preview.NewSlot(registry),
		errs:         make(map[types.Operation]error),
		ctx:          ctx,
		cancel:       cancel,
	}
	store.Subscribe(s.invalidate)
	return s
}

// NewFromConfig creates a session talking to the configured service
func NewFromConfig(cfg *config.Config) *Session {
	return New(inference.New(cfg))
}

// invalidate drops every result derived from the previous selection
func (s *Session) invalidate(selection.Change) {
	s.classification = nil
	s.denoised = nil
	s.denoisedSlot.Release()
	for op := range s.errs {
		delete(s.errs, op)
	}
	s.orchestrator.Reset()
}

// SelectFile makes file the current selection
func (s *Session) SelectFile(file *types.SelectedFile) error {
	return s.store.Select(file)
}

// ClearFile removes the current selection
func (s *Session) ClearFile() {
	s.store.Clear()
}

// Dispatch begins op against the current file. The returned request must
// be passed to Execute, whose completion goes back through Complete.
func (s *Session) Dispatch(op types.Operation) (*orchestrator.Request, error) {
	req, err := s.orchestrator.Begin(op, s.store.Current(), s.store.Generation())
	if err != nil {
		return nil, err
	}
	delete(s.errs, op)
	return req, nil
}

// Execute performs a dispatched request. It blocks on the network and is
// safe to call from any goroutine.
func (s *Session) Execute(req *orchestrator.Request) orchestrator.Completion {
	return s.orchestrator.Execute(s.ctx, req)
}

// Complete applies a completion to the session. It returns false when the
// completion belongs to a selection that has since changed; such
// completions are discarded and any display reference they carry is
// released.
func (s *Session) Complete(c orchestrator.Completion) bool {
	req := c.Request
	if req == nil {
		return false
	}

	if req.Generation != s.store.Generation() {
		c.Denoised.Release()
		s.orchestrator.Reset(req.Op)
		log.LogWithFields(
			log.F("operation", req.Op.String()),
			log.F("request_id", req.ID),
			log.F("file", req.File.Name),
		).Info("discarding result for a file that is no longer selected")
		return false
	}

	if c.Err != nil {
		s.errs[req.Op] = c.Err
		return true
	}

	switch req.Op {
	case types.Classify:
		s.classification = c.Classification
	case types.Denoise:
		s.denoisedSlot.Install(c.Denoised)
		s.denoised = c.DenoisedImage
	}
	return true
}

// Run dispatches op and waits for its completion on the calling
// goroutine
func (s *Session) Run(op types.Operation) (orchestrator.Completion, error) {
	req, err := s.Dispatch(op)
	if err != nil {
		return orchestrator.Completion{}, err
	}
	c := s.Execute(req)
	s.Complete(c)
	return c, c.Err
}

// Current returns the selected file, or nil
func (s *Session) Current() *types.SelectedFile {
	return s.store.Current()
}

// Generation returns the current selection generation
func (s *Session) Generation() uint64 {
	return s.store.Generation()
}

// PreviewRef returns the display reference of the selected file
func (s *Session) PreviewRef() string {
	return s.previews.Ref()
}

// Resolve returns the content behind a display reference
func (s *Session) Resolve(ref string) (preview.Entry, bool) {
	return s.registry.Resolve(ref)
}

// Registry returns the registry issuing this session's references
func (s *Session) Registry() *preview.Registry {
	return s.registry
}

// Busy reports whether a request is in flight
func (s *Session) Busy() bool {
	return s.orchestrator.Busy()
}

// CanTrigger reports whether an operation may be dispatched now
func (s *Session) CanTrigger() bool {
	return s.store.HasFile() && !s.orchestrator.Busy()
}

// State returns the state of op
func (s *Session) State(op types.Operation) types.OperationState {
	return s.orchestrator.State(op)
}

// Classification returns the current classification result, or nil
func (s *Session) Classification() *types.ClassificationResult {
	return s.classification
}

// Denoised returns the current denoised image, or nil
func (s *Session) Denoised() *types.DenoisedImage {
	return s.denoised
}

// Err returns the failure of the latest op request, or nil
func (s *Session) Err(op types.Operation) error {
	return s.errs[op]
}

// View renders op for display
func (s *Session) View(op types.Operation) presenter.View {
	state := s.orchestrator.State(op)
	if state == types.Failed && s.errs[op] == nil {
		// Completion not applied yet
		state = types.Busy
	}
	return presenter.Render(op, state, presenter.Outcome{
		Classification: s.classification,
		Denoised:       s.denoised,
		Err:            s.errs[op],
	})
}

// Close cancels in-flight requests and releases every display reference
func (s *Session) Close() {
	s.cancel()
	s.denoisedSlot.Release()
	s.previews.Close()
	s.classification = nil
	s.denoised = nil
	if live := s.registry.Live(); live != 0 {
		log.Warnf("%d display references still live after close", live)
	}
}
