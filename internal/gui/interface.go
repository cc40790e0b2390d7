package gui

import (
	"imglab/internal/config"
	"imglab/internal/picker"
	"imglab/internal/session"
	"imglab/internal/watch"
)

// Interface defines the contract for GUI operations
type Interface interface {
	Run()
	ShowError(title string, err error)
	ShowInfo(message string)
}

// Options are the collaborators the GUI drives
type Options struct {
	Session    *session.Session
	Picker     *picker.Picker
	Watcher    *watch.Watcher
	AutoSelect bool
}

// Factory creates GUI instances
type Factory struct {
	config  *config.Config
	options Options
}

// NewFactory creates a new GUI factory
func NewFactory(cfg *config.Config, opts Options) *Factory {
	return &Factory{
		config:  cfg,
		options: opts,
	}
}
