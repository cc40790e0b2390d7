//go:build !nogui

package gui

import (
	"path/filepath"
	"testing"

	"imglab/internal/config"
	"imglab/internal/picker"
	"imglab/internal/session"
	"imglab/pkg/testutils"
	"imglab/pkg/types"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*App, *testutils.FakeService, string) {
	t.Helper()
	svc := testutils.NewFakeService(t)
	cfg := config.NewTestConfig(svc.URL())
	p, err := picker.New(cfg)
	require.NoError(t, err)
	s := session.NewFromConfig(cfg)
	t.Cleanup(s.Close)

	dir := t.TempDir()
	testutils.CreateTestImages(t, dir)

	a := newApp(test.NewTempApp(t), cfg, Options{Session: s, Picker: p})
	return a, svc, dir
}

func TestInitialState(t *testing.T) {
	a, _, _ := newTestApp(t)

	assert.Equal(t, "No image selected", a.fileLabel.Text)
	require.Len(t, a.tabs.Items, 2)
	assert.Equal(t, "Classify", a.tabs.Items[0].Text)
	assert.Equal(t, "Denoise", a.tabs.Items[1].Text)
	for _, p := range a.panes {
		assert.True(t, p.trigger.Disabled())
		assert.False(t, p.preview.Visible())
	}
}

func TestDisabledTriggerDoesNothing(t *testing.T) {
	a, svc, _ := newTestApp(t)

	test.Tap(a.panes[types.Classify].trigger)
	assert.False(t, a.session.Busy())
	assert.Empty(t, svc.Uploads())
}

func TestSelectPath(t *testing.T) {
	a, _, dir := newTestApp(t)

	a.selectPath(filepath.Join(dir, "cat.png"))
	assert.Contains(t, a.fileLabel.Text, "cat.png")
	for _, p := range a.panes {
		assert.False(t, p.trigger.Disabled())
		assert.True(t, p.preview.Visible())
		require.NotNil(t, p.preview.Resource)
		assert.Equal(t, "cat.png", p.preview.Resource.Name())
	}

	a.selectPath(filepath.Join(dir, "notes.txt"))
	assert.Contains(t, a.fileLabel.Text, "cat.png")
	assert.Contains(t, a.status.Text, "not an accepted image")
}

func TestClassifyCompletion(t *testing.T) {
	a, _, dir := newTestApp(t)
	a.selectPath(filepath.Join(dir, "cat.png"))

	req, ok := a.dispatch(types.Classify)
	require.True(t, ok)
	p := a.panes[types.Classify]
	assert.Equal(t, "Processing...", p.trigger.Text)
	assert.True(t, p.trigger.Disabled())

	a.complete(a.session.Execute(req))
	assert.Equal(t, "Predicted Class: cat\nConfidence: 92.34%", p.lines.Text)
	assert.Equal(t, "Classify", p.trigger.Text)
	assert.False(t, p.trigger.Disabled())
}

func TestDenoiseCompletion(t *testing.T) {
	a, _, dir := newTestApp(t)
	a.selectPath(filepath.Join(dir, "noisy.png"))

	req, ok := a.dispatch(types.Denoise)
	require.True(t, ok)
	a.complete(a.session.Execute(req))

	p := a.panes[types.Denoise]
	assert.True(t, p.result.Visible())
	require.NotNil(t, p.result.Resource)
	assert.Equal(t, testutils.PNG(2, 2), p.result.Resource.Content())
}

func TestFailureShowsNotice(t *testing.T) {
	a, svc, dir := newTestApp(t)
	svc.OnDenoise(testutils.Status(500, "model crashed"))
	a.selectPath(filepath.Join(dir, "noisy.png"))

	req, ok := a.dispatch(types.Denoise)
	require.True(t, ok)
	a.complete(a.session.Execute(req))

	p := a.panes[types.Denoise]
	assert.Equal(t, "An error occurred during denoising", p.notice.Text)
	assert.Contains(t, p.cause.Text, "model crashed")
	assert.False(t, p.result.Visible())
}

func TestStaleCompletionIgnored(t *testing.T) {
	a, _, dir := newTestApp(t)
	a.selectPath(filepath.Join(dir, "cat.png"))

	req, ok := a.dispatch(types.Classify)
	require.True(t, ok)
	c := a.session.Execute(req)

	a.selectPath(filepath.Join(dir, "noisy.png"))
	a.complete(c)

	assert.Empty(t, a.panes[types.Classify].lines.Text)
	assert.Equal(t, "Discarded result for cat.png", a.status.Text)
}

func TestOfferWithoutAutoSelect(t *testing.T) {
	a, _, dir := newTestApp(t)

	a.offer(filepath.Join(dir, "cat.png"))
	assert.Nil(t, a.session.Current())
	assert.Equal(t, "New image: cat.png", a.status.Text)

	a.autoSelect = true
	a.offer(filepath.Join(dir, "cat.png"))
	require.NotNil(t, a.session.Current())
}
