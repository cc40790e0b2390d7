package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"imglab/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func setup(t *testing.T) (*testutils.FakeService, string, string) {
	t.Helper()
	svc := testutils.NewFakeService(t)
	dir := t.TempDir()
	testutils.CreateTestImages(t, dir)
	return svc, dir, filepath.Join(dir, "config.yaml")
}

func TestClassifyCommand(t *testing.T) {
	svc, dir, cfgPath := setup(t)

	out, err := execute(t, "--config", cfgPath, "--service", svc.URL(), "classify", filepath.Join(dir, "cat.png"))
	require.NoError(t, err)
	assert.Equal(t, "Predicted Class: cat\nConfidence: 92.34%\n", out)
	assert.Equal(t, 1, svc.Calls("/predict"))
}

func TestClassifyServerError(t *testing.T) {
	svc, dir, cfgPath := setup(t)
	svc.OnClassify(testutils.Status(500, "model unavailable"))

	_, err := execute(t, "--config", cfgPath, "--service", svc.URL(), "classify", filepath.Join(dir, "cat.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "classification failed")
	assert.Contains(t, err.Error(), "500")
}

func TestClassifyMissingFile(t *testing.T) {
	svc, dir, cfgPath := setup(t)

	_, err := execute(t, "--config", cfgPath, "--service", svc.URL(), "classify", filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
	assert.Empty(t, svc.Uploads())
}

func TestDenoiseCommand(t *testing.T) {
	svc, dir, cfgPath := setup(t)
	target := filepath.Join(dir, "clean.png")

	out, err := execute(t, "--config", cfgPath, "--service", svc.URL(),
		"denoise", filepath.Join(dir, "noisy.png"), "--output", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Denoised image written to "+target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, testutils.PNG(2, 2), data)
}

func TestDenoiseDefaultOutput(t *testing.T) {
	svc, dir, cfgPath := setup(t)

	_, err := execute(t, "--config", cfgPath, "--service", svc.URL(), "denoise", filepath.Join(dir, "noisy.png"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "noisy-denoised.png"))
}

func TestConfigInitAndShow(t *testing.T) {
	_, _, cfgPath := setup(t)

	out, err := execute(t, "--config", cfgPath, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, cfgPath)
	assert.FileExists(t, cfgPath)

	_, err = execute(t, "--config", cfgPath, "config", "init")
	assert.Error(t, err)
	_, err = execute(t, "--config", cfgPath, "config", "init", "--force")
	assert.NoError(t, err)

	out, err = execute(t, "--config", cfgPath, "--service", "http://inference:9000", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "base_url: http://inference:9000")
	assert.Contains(t, out, "classify_path: /predict")
}

func TestConfigThemes(t *testing.T) {
	_, _, cfgPath := setup(t)

	out, err := execute(t, "--config", cfgPath, "config", "themes")
	require.NoError(t, err)
	assert.Contains(t, out, "* default")
	assert.Contains(t, out, "  dark")
}

func TestInvalidConfigRejected(t *testing.T) {
	_, _, cfgPath := setup(t)
	require.NoError(t, os.WriteFile(cfgPath, []byte("service: [not, a, map"), 0644))

	_, err := execute(t, "--config", cfgPath, "config", "show")
	assert.Error(t, err)
}

func TestInvalidServiceFlag(t *testing.T) {
	_, _, cfgPath := setup(t)

	_, err := execute(t, "--config", cfgPath, "--service", "::not a url", "config", "show")
	assert.Error(t, err)
}
