package messages

import (
	"imglab/internal/orchestrator"
	"imglab/internal/watch"
	"imglab/pkg/types"
)

type ErrorMsg struct {
	Err error
}

// FileLoadedMsg carries a file read from disk for selection
type FileLoadedMsg struct {
	Path  string
	File  *types.SelectedFile
	Error error
}

// DirectoryLoadedMsg carries a picker listing
type DirectoryLoadedMsg struct {
	Path    string
	Entries []types.FileEntry
	Error   error
}

// CompletionMsg delivers the outcome of a dispatched request to the loop
type CompletionMsg struct {
	Completion orchestrator.Completion
}

// WatchEventMsg offers an image that appeared in the watched directory
type WatchEventMsg struct {
	Event watch.Event
}

// WatchClosedMsg reports that the watcher stopped
type WatchClosedMsg struct{}
