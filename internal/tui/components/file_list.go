package components

import (
	"fmt"
	"strings"

	"imglab/internal/picker"
	"imglab/internal/tui/styles"
	"imglab/pkg/types"
)

// FileList renders the picker listing with a cursor. Only a window of
// height rows around the cursor is drawn.
type FileList struct {
	files      []types.FileEntry
	cursor     int
	height     int
	currentDir string
}

func NewFileList() *FileList {
	return &FileList{height: 15}
}

func (fl *FileList) SetFiles(files []types.FileEntry) {
	fl.files = files
	if fl.cursor >= len(files) {
		fl.cursor = 0
	}
}

func (fl *FileList) SetCurrentDir(dir string) {
	fl.currentDir = dir
}

func (fl *FileList) SetHeight(h int) {
	if h > 0 {
		fl.height = h
	}
}

func (fl *FileList) MoveCursor(delta int) {
	newPos := fl.cursor + delta
	if newPos >= 0 && newPos < len(fl.files) {
		fl.cursor = newPos
	}
}

func (fl *FileList) Cursor() int {
	return fl.cursor
}

func (fl *FileList) Files() []types.FileEntry {
	return fl.files
}

func (fl *FileList) CurrentDir() string {
	return fl.currentDir
}

// Current returns the entry under the cursor, or nil
func (fl *FileList) Current() *types.FileEntry {
	if fl.cursor >= 0 && fl.cursor < len(fl.files) {
		return &fl.files[fl.cursor]
	}
	return nil
}

func (fl *FileList) View() string {
	var s strings.Builder

	s.WriteString(styles.Theme.Help.Render("Directory: "+fl.currentDir) + "\n\n")

	if len(fl.files) == 0 {
		s.WriteString("No images found\n")
		return s.String()
	}

	start := 0
	if fl.cursor >= fl.height {
		start = fl.cursor - fl.height + 1
	}
	end := start + fl.height
	if end > len(fl.files) {
		end = len(fl.files)
	}

	for i := start; i < end; i++ {
		file := fl.files[i]
		style := styles.Theme.Unselected
		if file.IsDir {
			style = styles.Theme.Directory
		}

		cursor := " "
		if i == fl.cursor {
			cursor = ">"
			style = styles.Theme.Selected
		}
		s.WriteString(fmt.Sprintf("%s %s\n", cursor, style.Render(picker.Describe(file))))
	}
	if end < len(fl.files) {
		s.WriteString(styles.Theme.Help.Render(fmt.Sprintf("  … %d more", len(fl.files)-end)) + "\n")
	}

	return s.String()
}
