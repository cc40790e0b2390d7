// Package picker discovers and loads image files for selection. Which
// files are offered is decided by glob accept patterns from the config.
package picker

import (
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"imglab/internal/config"
	"imglab/internal/errors"
	"imglab/internal/log"
	"imglab/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gobwas/glob"
)

// Picker lists and loads files that match its accept patterns
type Picker struct {
	accept     []glob.Glob
	showHidden bool
}

// New compiles the accept patterns of cfg
func New(cfg *config.Config) (*Picker, error) {
	patterns := cfg.Picker.Accept
	if len(patterns) == 0 {
		patterns = config.DefaultAccept
	}

	p := &Picker{showHidden: cfg.Picker.ShowHidden}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.NewConfigError("invalid accept pattern", "picker.accept", errors.InvalidConfig, err)
		}
		p.accept = append(p.accept, g)
	}
	return p, nil
}

// Accepts reports whether the base name of path matches an accept pattern
func (p *Picker) Accepts(path string) bool {
	name := filepath.Base(path)
	if !p.showHidden && strings.HasPrefix(name, ".") {
		return false
	}
	for _, g := range p.accept {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// List returns the directories and accepted files in dir, directories
// first, each group sorted by name
func (p *Picker) List(dir string) ([]types.FileEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileError("directory not found", dir, errors.FileNotFound, err)
		}
		return nil, errors.NewFileError("cannot read directory", dir, errors.FileAccessDenied, err)
	}

	var dirs, files []types.FileEntry
	for _, e := range entries {
		name := e.Name()
		if !p.showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		if e.IsDir() {
			dirs = append(dirs, types.FileEntry{Name: name, Path: path, IsDir: true})
			continue
		}
		if !p.Accepts(name) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			log.LogWithFields(log.F("file", path)).WithError(err).Debug("skipping unreadable entry")
			continue
		}
		files = append(files, types.FileEntry{
			Name:        name,
			Path:        path,
			ContentType: MediaType(name, nil),
			Size:        info.Size(),
		})
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name < dirs[j].Name })
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return append(dirs, files...), nil
}

// Load reads path into a SelectedFile
func (p *Picker) Load(path string) (*types.SelectedFile, error) {
	return Load(path)
}

// Load reads any file into a SelectedFile without applying accept patterns
func Load(path string) (*types.SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileError("file not found", path, errors.FileNotFound, err)
		}
		return nil, errors.NewFileError("cannot access file", path, errors.FileAccessDenied, err)
	}
	if info.IsDir() {
		return nil, errors.NewFileError("is a directory", path, errors.FileAccessDenied, nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewFileError("cannot read file", path, errors.FileAccessDenied, err)
	}
	if len(data) == 0 {
		return nil, errors.NewFileError("file has no content", path, errors.EmptyPayload, nil)
	}

	file := &types.SelectedFile{
		Name:      filepath.Base(path),
		MediaType: MediaType(path, data),
		Data:      data,
		Metadata:  Metadata(data),
	}
	log.LogWithFields(
		log.F("file", path),
		log.F("size", humanize.Bytes(uint64(len(data)))),
	).Debug("file loaded")
	return file, nil
}

// MediaType guesses the media type of a file from its extension, falling
// back to sniffing data
func MediaType(name string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = t[:i]
		}
		return t
	}
	if len(data) > 0 {
		return mimetype.Detect(data).String()
	}
	return "application/octet-stream"
}

// Describe formats an entry for a listing
func Describe(e types.FileEntry) string {
	if e.IsDir {
		return e.Name + "/"
	}
	return e.Name + "  " + humanize.Bytes(uint64(e.Size))
}
