// Package orchestrator performs the remote operations with single-flight
// execution: at most one request, of either kind, is in flight at a time.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"imglab/internal/errors"
	"imglab/internal/log"
	"imglab/internal/preview"
	"imglab/pkg/types"

	"github.com/google/uuid"
)

// Service is the remote inference service
type Service interface {
	Classify(ctx context.Context, file *types.SelectedFile) (*types.ClassificationResult, error)
	Denoise(ctx context.Context, file *types.SelectedFile) ([]byte, string, error)
}

// Request is a dispatched operation. It records the file and the selection
// generation it was dispatched against so that completions arriving after
// the selection changed can be recognised as stale.
type Request struct {
	ID         string
	Op         types.Operation
	File       *types.SelectedFile
	Generation uint64
	Started    time.Time
}

// Completion is the outcome of a request. Exactly one of Classification,
// Denoised or Err is set.
type Completion struct {
	Request        *Request
	Classification *types.ClassificationResult
	Denoised       *preview.Handle
	DenoisedImage  *types.DenoisedImage
	Err            error
}

// Orchestrator gates and executes requests
type Orchestrator struct {
	service  Service
	registry *preview.Registry
	denoised *preview.Slot

	// slot holds one token while a request is in flight
	slot chan struct{}

	mu      sync.Mutex
	states  map[types.Operation]types.OperationState
	lastErr map[types.Operation]error
}

// New creates an orchestrator. Denoised images get their display
// references from registry.
func New(service Service, registry *preview.Registry) *Orchestrator {
	return &Orchestrator{
		service:  service,
		registry: registry,
		denoised: preview.NewSlot(registry),
		slot:     make(chan struct{}, 1),
		states: map[types.Operation]types.OperationState{
			types.Classify: types.Idle,
			types.Denoise:  types.Idle,
		},
		lastErr: make(map[types.Operation]error),
	}
}

// Begin acquires the gate for op. It fails without touching the network
// when file is nil or another request is in flight.
func (o *Orchestrator) Begin(op types.Operation, file *types.SelectedFile, generation uint64) (*Request, error) {
	if file == nil {
		return nil, errors.ErrNoFileSelected
	}

	select {
	case o.slot <- struct{}{}:
	default:
		log.LogWithFields(log.F("operation", op.String())).Debug("request rejected while busy")
		return nil, errors.ErrBusy
	}

	req := &Request{
		ID:         uuid.NewString(),
		Op:         op,
		File:       file,
		Generation: generation,
		Started:    time.Now(),
	}

	o.mu.Lock()
	o.states[op] = types.Busy
	delete(o.lastErr, op)
	o.mu.Unlock()

	log.LogWithFields(
		log.F("operation", op.String()),
		log.F("request_id", req.ID),
		log.F("file", file.Name),
	).Info("request dispatched")
	return req, nil
}

// Execute performs a begun request and releases the gate. It may run on
// any goroutine. Failures, including a panicking service, are returned in
// the Completion.
func (o *Orchestrator) Execute(ctx context.Context, req *Request) (c Completion) {
	c.Request = req
	defer func() {
		if r := recover(); r != nil {
			c.Classification, c.Denoised, c.DenoisedImage = nil, nil, nil
			c.Err = errors.Newf("%s panicked: %v", req.Op, r)
		}
		o.finish(&c)
	}()

	switch req.Op {
	case types.Classify:
		c.Classification, c.Err = o.service.Classify(ctx, req.File)
	case types.Denoise:
		data, mediaType, err := o.service.Denoise(ctx, req.File)
		if err != nil {
			c.Err = err
			break
		}
		h := o.registry.Create("denoised-"+req.File.Name, mediaType, data)
		c.Denoised = h
		c.DenoisedImage = &types.DenoisedImage{Data: data, MediaType: mediaType, Ref: h.Ref()}
	default:
		c.Err = errors.Newf("unknown operation %d", int(req.Op))
	}
	return c
}

func (o *Orchestrator) finish(c *Completion) {
	req := c.Request
	state := types.Succeeded
	if c.Err != nil {
		state = types.Failed
	}

	o.mu.Lock()
	o.states[req.Op] = state
	if c.Err != nil {
		o.lastErr[req.Op] = c.Err
	}
	o.mu.Unlock()

	<-o.slot

	fields := log.LogWithFields(
		log.F("operation", req.Op.String()),
		log.F("request_id", req.ID),
		log.F("elapsed", time.Since(req.Started).String()),
	)
	if c.Err != nil {
		fields.WithError(c.Err).Warn("request failed")
		return
	}
	fields.Info("request completed")
}

// Classify runs a classification to completion
func (o *Orchestrator) Classify(ctx context.Context, file *types.SelectedFile) (*types.ClassificationResult, error) {
	req, err := o.Begin(types.Classify, file, 0)
	if err != nil {
		return nil, err
	}
	c := o.Execute(ctx, req)
	return c.Classification, c.Err
}

// Denoise runs a denoise to completion. The display reference of the
// result replaces, and releases, the one returned by the previous call.
func (o *Orchestrator) Denoise(ctx context.Context, file *types.SelectedFile) (*types.DenoisedImage, error) {
	req, err := o.Begin(types.Denoise, file, 0)
	if err != nil {
		return nil, err
	}
	c := o.Execute(ctx, req)
	if c.Err != nil {
		return nil, c.Err
	}
	o.denoised.Install(c.Denoised)
	return c.DenoisedImage, nil
}

// Close releases the display reference held for the last Denoise call
func (o *Orchestrator) Close() {
	o.denoised.Release()
}

// State returns the state of op
func (o *Orchestrator) State(op types.Operation) types.OperationState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.states[op]
}

// LastError returns the failure of the most recent op request, if it failed
func (o *Orchestrator) LastError(op types.Operation) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr[op]
}

// Busy reports whether a request is in flight
func (o *Orchestrator) Busy() bool {
	return len(o.slot) > 0
}

// Reset returns the given operations, or all of them, to Idle unless they
// are in flight
func (o *Orchestrator) Reset(ops ...types.Operation) {
	if len(ops) == 0 {
		ops = types.Operations
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, op := range ops {
		if o.states[op] != types.Busy {
			o.states[op] = types.Idle
			delete(o.lastErr, op)
		}
	}
}
