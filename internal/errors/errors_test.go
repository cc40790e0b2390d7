package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())

	err = Newf("formatted %s", "error")
	assert.Equal(t, "formatted error", err.Error())

	var appErr *ApplicationError
	assert.True(t, As(err, &appErr))
	assert.Equal(t, Unknown, appErr.Kind())
}

func TestWrapping(t *testing.T) {
	origErr := New("original error")
	wrappedErr := Wrap(origErr, "wrapped")
	assert.Equal(t, "wrapped: original error", wrappedErr.Error())
	assert.Equal(t, origErr, Unwrap(wrappedErr))

	wrappedFormatted := Wrapf(origErr, "formatted %s", "wrapper")
	assert.Equal(t, "formatted wrapper: original error", wrappedFormatted.Error())

	// Test wrapping nil returns nil
	assert.Nil(t, Wrap(nil, "wrapper"))
	assert.Nil(t, Wrapf(nil, "formatted %s", "wrapper"))

	deepWrapped := Wrap(wrappedErr, "deeper")
	assert.Equal(t, "deeper: wrapped: original error", deepWrapped.Error())
	assert.True(t, Is(deepWrapped, origErr))
}

func TestFileError(t *testing.T) {
	fileErr := NewFileError("cannot read", "/tmp/cat.jpg", FileAccessDenied, nil)
	assert.Equal(t, "cannot read: /tmp/cat.jpg", fileErr.Error())
	assert.Equal(t, "/tmp/cat.jpg", fileErr.Path())
	assert.Equal(t, FileAccessDenied, fileErr.Kind())

	origErr := fmt.Errorf("permission denied")
	fileErr = NewFileError("cannot read", "/tmp/cat.jpg", FileAccessDenied, origErr)
	assert.Equal(t, "cannot read: /tmp/cat.jpg: permission denied", fileErr.Error())
	assert.Equal(t, origErr, Unwrap(fileErr))

	missing := NewFileError("file not found", "/missing.png", FileNotFound, nil)
	assert.True(t, IsFileNotFound(missing))
	assert.False(t, IsFileNotFound(fileErr))
}

func TestConfigError(t *testing.T) {
	cfgErr := NewConfigError("invalid value", "service.base_url", InvalidConfig, nil)
	assert.Equal(t, "invalid value: service.base_url", cfgErr.Error())
	assert.Equal(t, "service.base_url", cfgErr.Param())
	assert.True(t, IsInvalidConfig(cfgErr))
	assert.True(t, IsInvalidConfig(fmt.Errorf("load: %w", cfgErr)))
}

func TestOperationError(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		err := NewStatusError("classify", 500, "")
		assert.Equal(t, "classify operation failed: status 500", err.Error())
		assert.Equal(t, 500, err.Status())
		assert.Equal(t, "classify", err.Operation())
		assert.True(t, IsOperationFailed(err))
		assert.False(t, IsMalformedResponse(err))
	})

	t.Run("status_with_detail", func(t *testing.T) {
		err := NewStatusError("denoise", 400, "No image uploaded")
		assert.Equal(t, "denoise operation failed: status 400: No image uploaded", err.Error())
		assert.Equal(t, "No image uploaded", err.Detail())
	})

	t.Run("malformed", func(t *testing.T) {
		cause := errors.New("missing field predicted_class")
		err := NewOperationError("classify", MalformedResponse, cause)
		assert.Equal(t, "classify malformed response: missing field predicted_class", err.Error())
		assert.True(t, IsMalformedResponse(err))
		assert.Equal(t, cause, Unwrap(err))
	})
}

func TestSentinelKinds(t *testing.T) {
	assert.True(t, Is(ErrBusy, ErrBusy))
	assert.True(t, IsBusy(fmt.Errorf("dispatch: %w", ErrBusy)))
	assert.True(t, IsNoFileSelected(ErrNoFileSelected))
	assert.False(t, Is(ErrBusy, ErrNoFileSelected))

	// Kind matching lets freshly built errors compare equal to sentinels
	busy := &ApplicationError{msg: "classify rejected", kind: Busy}
	assert.True(t, Is(busy, ErrBusy))

	// Unknown errors never match each other by kind
	assert.False(t, Is(New("a"), New("a")))
	assert.Equal(t, Unknown, KindOf(nil))
	assert.Equal(t, Unknown, KindOf(errors.New("plain")))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "operation failed", OperationFailed.String())
	assert.Equal(t, "busy", Busy.String())
	assert.Equal(t, "kind(99)", ErrorKind(99).String())
}
