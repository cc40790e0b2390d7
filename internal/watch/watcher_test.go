package watch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"imglab/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOnly(path string) bool {
	return strings.HasSuffix(path, ".png")
}

func startWatcher(t *testing.T, dir string) *Watcher {
	t.Helper()
	w, err := New(pngOnly)
	require.NoError(t, err)
	require.NoError(t, w.AddDirectory(dir))
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)

	// Give fsnotify a moment to install the watch
	time.Sleep(100 * time.Millisecond)
	return w
}

func nextEvent(t *testing.T, w *Watcher, path string) Event {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case ev, ok := <-w.Events():
			require.True(t, ok, "event channel closed unexpectedly")
			if ev.Path == path {
				return ev
			}
		case <-timeout:
			t.Fatalf("timeout waiting for event on %s", path)
		}
	}
}

func TestWatcherOffersImages(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	path := filepath.Join(dir, "dropped.png")
	require.NoError(t, os.WriteFile(path, testutils.PNG(4, 4), 0644))

	ev := nextEvent(t, w, path)
	assert.Equal(t, int64(len(testutils.PNG(4, 4))), ev.Size)
	assert.False(t, ev.Timestamp.IsZero())

	status := w.Status()
	assert.True(t, status.Running)
	assert.Equal(t, []string{dir}, status.Directories)
	assert.GreaterOrEqual(t, status.Offered, 1)
}

func TestWatcherIgnoresRejectedFiles(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("text"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0755))
	path := filepath.Join(dir, "after.png")
	require.NoError(t, os.WriteFile(path, testutils.PNG(2, 2), 0644))

	// The first offered event must be the accepted image
	select {
	case ev := <-w.Events():
		assert.Equal(t, path, ev.Path)
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestWatcherStopClosesChannel(t *testing.T) {
	dir := t.TempDir()
	w, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, w.AddDirectory(dir))
	require.NoError(t, w.Start())
	assert.Error(t, w.Start())

	w.Stop()
	assert.False(t, w.IsRunning())
	w.Stop()

	for range w.Events() {
	}
	_, ok := <-w.Events()
	assert.False(t, ok)
}

func TestAddDirectoryErrors(t *testing.T) {
	w, err := New(nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.AddDirectory(filepath.Join(t.TempDir(), "missing")))

	file := filepath.Join(t.TempDir(), "file.png")
	require.NoError(t, os.WriteFile(file, testutils.PNG(1, 1), 0644))
	assert.Error(t, w.AddDirectory(file))
}
