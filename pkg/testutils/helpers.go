package testutils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"imglab/pkg/types"

	"github.com/stretchr/testify/require"
)

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string][]byte) {
	t.Helper()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), content, 0644)
		require.NoError(t, err)
	}
}

// CreateTestImages writes a few small images and one non-image file
func CreateTestImages(t *testing.T, dir string) {
	t.Helper()
	CreateTestFilesWithContent(t, dir, map[string][]byte{
		"cat.png":   PNG(4, 4),
		"noisy.png": PNG(8, 8),
		"notes.txt": []byte("not an image"),
	})
}

// PNG encodes a w x h grey gradient
func PNG(w, h int) []byte {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y) * 16)})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// ImageFile builds a selected PNG file in memory
func ImageFile(name string) *types.SelectedFile {
	return &types.SelectedFile{Name: name, MediaType: "image/png", Data: PNG(4, 4)}
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}
