package types

import (
	"fmt"
	"strings"
)

// SelectedFile is an image chosen by the user. It is never mutated after
// creation; a new selection replaces it wholesale.
type SelectedFile struct {
	Name      string
	MediaType string
	Data      []byte

	// Metadata holds EXIF fields such as CameraModel, if the image has any
	Metadata map[string]string
}

// Size returns the payload length in bytes
func (f *SelectedFile) Size() int {
	if f == nil {
		return 0
	}
	return len(f.Data)
}

// String returns a human-readable representation
func (f *SelectedFile) String() string {
	if f == nil {
		return "(none)"
	}
	return fmt.Sprintf("%s (%s, %d bytes)", f.Name, f.MediaType, len(f.Data))
}

// ClassificationResult is the label returned by the classify operation.
// Confidence is in [0,1].
type ClassificationResult struct {
	Label      string  `json:"predicted_class"`
	Confidence float64 `json:"confidence"`
}

// DenoisedImage is the cleaned image returned by the denoise operation
// together with the display reference that renders it.
type DenoisedImage struct {
	Data      []byte
	MediaType string
	Ref       string
}

// FileEntry represents a file or directory offered by the picker.
type FileEntry struct {
	Name        string
	Path        string
	ContentType string
	Size        int64
	IsDir       bool
}

// FilterValue is required by list components for filtering.
func (e FileEntry) FilterValue() string {
	return e.Name
}

// IsImage reports whether the entry declares an image media type
func (e FileEntry) IsImage() bool {
	return strings.HasPrefix(e.ContentType, "image/")
}
