package tui

import (
	"path/filepath"
	"testing"
	"time"

	"imglab/internal/config"
	"imglab/internal/picker"
	"imglab/internal/session"
	"imglab/internal/tui/messages"
	"imglab/internal/watch"
	"imglab/pkg/testutils"
	"imglab/pkg/types"

	alsrt "github.com/alecthomas/assert"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(t *testing.T, opts ...Option) (*Model, *testutils.FakeService) {
	t.Helper()
	svc := testutils.NewFakeService(t)
	cfg := config.NewTestConfig(svc.URL())
	p, err := picker.New(cfg)
	require.NoError(t, err)

	m := New(session.NewFromConfig(cfg), p, opts...)
	t.Cleanup(m.Close)
	return m, svc
}

// collect runs cmd and flattens batches into their messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// send feeds msg to the model and then every message its command yields,
// except spinner ticks which would never end
func send(m *Model, msg tea.Msg) {
	_, cmd := m.Update(msg)
	for _, next := range collect(cmd) {
		switch next.(type) {
		case messages.CompletionMsg, messages.FileLoadedMsg, messages.DirectoryLoadedMsg:
			send(m, next)
		}
	}
}

func screen(m *Model) string {
	return testutils.StripANSI(m.View())
}

func TestInitialView(t *testing.T) {
	m, _ := newModel(t)
	assert.Nil(t, m.Init())

	out := screen(m)
	assert.Contains(t, out, "Classify")
	assert.Contains(t, out, "Denoise")
	assert.Contains(t, out, "No image selected")
	assert.Contains(t, out, "select an image first")
	alsrt.Equal(t, types.Normal, m.Mode())
	alsrt.Equal(t, types.ViewClassify, m.ActiveTab())
}

func TestTriggerWithoutFile(t *testing.T) {
	m, svc := newModel(t)

	_, cmd := m.Update(enter)
	assert.Nil(t, cmd)
	assert.Equal(t, "Please select an image file first.", m.StatusText())
	assert.Empty(t, svc.Uploads())
}

func TestBrowseAndSelect(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestImages(t, dir)
	m, _ := newModel(t, WithStartDir(dir))

	send(m, runes("o"))
	require.Equal(t, types.Browse, m.Mode())
	names := []string{}
	for _, e := range m.Browser().Files() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"cat.png", "noisy.png"}, names)
	assert.Contains(t, screen(m), "noisy.png")
	assert.NotContains(t, screen(m), "notes.txt")

	send(m, runes("j"))
	send(m, enter)
	require.Equal(t, types.Normal, m.Mode())
	require.NotNil(t, m.Current())
	assert.Equal(t, "noisy.png", m.Current().Name)
	assert.Contains(t, m.PreviewRef(), "preview:")
	assert.Contains(t, screen(m), "noisy.png (image/png")
}

func TestBrowseCancel(t *testing.T) {
	dir := t.TempDir()
	m, _ := newModel(t, WithStartDir(dir))

	send(m, runes("o"))
	require.Equal(t, types.Browse, m.Mode())
	assert.Contains(t, screen(m), "No images found")

	send(m, esc)
	assert.Equal(t, types.Normal, m.Mode())
}

func TestClassifyFlow(t *testing.T) {
	m, svc := newModel(t)
	send(m, messages.FileLoadedMsg{File: testutils.ImageFile("cat.jpg")})

	_, cmd := m.Update(enter)
	require.NotNil(t, cmd)
	assert.True(t, m.Busy())
	assert.Contains(t, screen(m), "Processing...")

	// A second trigger while busy is rejected
	_, again := m.Update(enter)
	assert.Nil(t, again)
	assert.Equal(t, "Another request is still in progress.", m.StatusText())

	for _, msg := range collect(cmd) {
		if c, ok := msg.(messages.CompletionMsg); ok {
			send(m, c)
		}
	}

	out := screen(m)
	assert.Contains(t, out, "Predicted Class: cat")
	assert.Contains(t, out, "Confidence: 92.34%")
	assert.False(t, m.Busy())
	assert.Equal(t, 1, svc.Calls("/predict"))
}

func TestDenoiseTab(t *testing.T) {
	m, svc := newModel(t)
	send(m, messages.FileLoadedMsg{File: testutils.ImageFile("noisy.png")})

	send(m, tab)
	alsrt.Equal(t, types.ViewDenoise, m.ActiveTab())
	send(m, enter)

	v := m.Result(types.Denoise)
	require.NotEmpty(t, v.ImageRef)
	assert.Contains(t, screen(m), v.ImageRef)
	assert.Equal(t, 1, svc.Calls("/denoise"))

	// The classify tab has no result of its own
	send(m, runes("1"))
	assert.Contains(t, screen(m), "No result yet")
}

func TestFailureNotice(t *testing.T) {
	m, svc := newModel(t)
	svc.OnClassify(testutils.Status(500, "model unavailable"))
	send(m, messages.FileLoadedMsg{File: testutils.ImageFile("cat.png")})

	send(m, enter)
	out := screen(m)
	assert.Contains(t, out, "An error occurred during classification")
	assert.Contains(t, out, "model unavailable")
	assert.True(t, m.CanTrigger())
}

func TestStaleResultDiscarded(t *testing.T) {
	m, svc := newModel(t)
	send(m, messages.FileLoadedMsg{File: testutils.ImageFile("a.png")})
	svc.Hold()

	_, cmd := m.Update(enter)
	require.NotNil(t, cmd)

	results := make(chan []tea.Msg, 1)
	go func() { results <- collect(cmd) }()
	select {
	case <-svc.Entered():
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the service")
	}

	send(m, messages.FileLoadedMsg{File: testutils.ImageFile("b.png")})
	svc.Release()
	for _, msg := range <-results {
		if c, ok := msg.(messages.CompletionMsg); ok {
			send(m, c)
		}
	}

	assert.Equal(t, "b.png", m.Current().Name)
	assert.NotContains(t, screen(m), "Predicted Class")
	assert.Equal(t, "Discarded result for a.png", m.StatusText())
	assert.False(t, m.Busy())
}

func TestClearSelection(t *testing.T) {
	m, _ := newModel(t)
	send(m, messages.FileLoadedMsg{File: testutils.ImageFile("cat.png")})
	send(m, enter)
	require.NotNil(t, m.session.Classification())

	send(m, runes("x"))
	assert.Nil(t, m.Current())
	assert.Nil(t, m.session.Classification())
	assert.Contains(t, screen(m), "No image selected")
}

func TestWatchAutoSelect(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestImages(t, dir)
	m, _ := newModel(t, WithWatcher(nil, true))

	send(m, messages.WatchEventMsg{Event: watch.Event{Path: filepath.Join(dir, "cat.png")}})
	require.NotNil(t, m.Current())
	assert.Equal(t, "cat.png", m.Current().Name)
}

func TestWatchOfferOnly(t *testing.T) {
	m, _ := newModel(t, WithWatcher(nil, false))

	send(m, messages.WatchEventMsg{Event: watch.Event{Path: "/tmp/new/dog.png"}})
	assert.Nil(t, m.Current())
	assert.Equal(t, "New image: dog.png", m.StatusText())
}

func TestHelpToggle(t *testing.T) {
	m, _ := newModel(t)
	assert.False(t, m.ShowHelp())
	send(m, runes("?"))
	assert.True(t, m.ShowHelp())
	assert.Contains(t, screen(m), "parent dir")
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}
