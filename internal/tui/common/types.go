package common

import (
	"imglab/internal/presenter"
	"imglab/pkg/types"
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Mode() types.Mode
	ActiveTab() types.ViewMode
	ShowHelp() bool

	// Selection
	Current() *types.SelectedFile
	PreviewRef() string
	CanTrigger() bool
	Busy() bool

	// Results for an operation
	Result(op types.Operation) presenter.View
}
