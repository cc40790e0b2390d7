package picker

import (
	"bytes"
	"sync"

	"imglab/internal/log"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
)

// EXIF fields copied into SelectedFile.Metadata
const (
	MetaTaken  = "DateTimeOriginal"
	MetaCamera = "CameraModel"
)

var registerParsers sync.Once

// Metadata extracts the capture time and camera model from the EXIF
// block of data. Images without EXIF yield nil.
func Metadata(data []byte) (meta map[string]string) {
	// goexif panics on some malformed maker notes
	defer func() {
		if r := recover(); r != nil {
			log.Warnf("failed to decode EXIF data: %v", r)
			meta = nil
		}
	}()
	registerParsers.Do(func() {
		exif.RegisterParsers(mknote.All...)
	})

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		log.Debugf("no EXIF data: %v", err)
		return nil
	}

	meta = make(map[string]string)
	if tag, err := x.Get(exif.DateTimeOriginal); err == nil {
		if v, err := tag.StringVal(); err == nil && v != "" {
			meta[MetaTaken] = v
		}
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if v, err := tag.StringVal(); err == nil && v != "" {
			meta[MetaCamera] = v
		}
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}
