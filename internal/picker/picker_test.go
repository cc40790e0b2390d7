package picker

import (
	"os"
	"path/filepath"
	"testing"

	"imglab/internal/config"
	"imglab/internal/errors"
	"imglab/pkg/testutils"
	"imglab/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPicker(t *testing.T) *Picker {
	t.Helper()
	p, err := New(config.New())
	require.NoError(t, err)
	return p
}

func TestAccepts(t *testing.T) {
	p := newPicker(t)

	for _, name := range []string{"cat.jpg", "cat.jpeg", "x.png", "X.PNG", "scan.tiff", "a/b/c.webp"} {
		assert.True(t, p.Accepts(name), name)
	}
	for _, name := range []string{"notes.txt", "archive.tar.gz", "png", ".hidden.png"} {
		assert.False(t, p.Accepts(name), name)
	}
}

func TestCustomAccept(t *testing.T) {
	cfg := config.New()
	cfg.Picker.Accept = []string{"scan-*.png"}
	cfg.Picker.ShowHidden = true
	p, err := New(cfg)
	require.NoError(t, err)

	assert.True(t, p.Accepts("scan-001.png"))
	assert.False(t, p.Accepts("cat.png"))
}

func TestInvalidAccept(t *testing.T) {
	cfg := config.New()
	cfg.Picker.Accept = []string{"*.[png"}
	_, err := New(cfg)
	assert.True(t, errors.IsInvalidConfig(err))
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestImages(t, dir)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".secret.png"), testutils.PNG(1, 1), 0644))

	entries, err := newPicker(t).List(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"nested", "cat.png", "noisy.png"}, names)
	assert.True(t, entries[0].IsDir)
	assert.Equal(t, "image/png", entries[1].ContentType)
	assert.Equal(t, int64(len(testutils.PNG(4, 4))), entries[1].Size)
	assert.True(t, entries[1].IsImage())
}

func TestListMissingDirectory(t *testing.T) {
	_, err := newPicker(t).List(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.IsFileNotFound(err))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestImages(t, dir)

	file, err := Load(filepath.Join(dir, "cat.png"))
	require.NoError(t, err)
	assert.Equal(t, "cat.png", file.Name)
	assert.Equal(t, "image/png", file.MediaType)
	assert.Equal(t, testutils.PNG(4, 4), file.Data)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string][]byte{"empty.png": {}})

	_, err := Load(filepath.Join(dir, "missing.png"))
	assert.True(t, errors.IsFileNotFound(err))

	_, err = Load(filepath.Join(dir, "empty.png"))
	assert.Equal(t, errors.EmptyPayload, errors.KindOf(err))

	_, err = Load(dir)
	assert.Equal(t, errors.FileAccessDenied, errors.KindOf(err))
}

func TestMediaTypeSniffing(t *testing.T) {
	assert.Equal(t, "image/png", MediaType("upload", testutils.PNG(1, 1)))
	assert.Equal(t, "image/jpeg", MediaType("cat.JPG", nil))
	assert.Equal(t, "application/octet-stream", MediaType("blob", nil))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "nested/", Describe(types.FileEntry{Name: "nested", IsDir: true}))
	assert.Equal(t, "cat.png  2.0 kB", Describe(types.FileEntry{Name: "cat.png", Size: 2000}))
}

func TestMetadataWithoutExif(t *testing.T) {
	assert.Nil(t, Metadata(testutils.PNG(2, 2)))
	assert.Nil(t, Metadata([]byte("not an image")))
	assert.Nil(t, Metadata(nil))
}
