package selection

import (
	"testing"

	"imglab/internal/errors"
	"imglab/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func file(name string) *types.SelectedFile {
	return &types.SelectedFile{Name: name, MediaType: "image/jpeg", Data: []byte("jpeg:" + name)}
}

func TestSelectReplacesCurrent(t *testing.T) {
	s := NewStore()
	assert.False(t, s.HasFile())
	assert.Nil(t, s.Current())

	require.NoError(t, s.Select(file("a.jpg")))
	assert.Equal(t, "a.jpg", s.Current().Name)
	first := s.Generation()

	require.NoError(t, s.Select(file("b.jpg")))
	assert.Equal(t, "b.jpg", s.Current().Name)
	assert.Greater(t, s.Generation(), first)
}

func TestSelectSameFileAgainBumpsGeneration(t *testing.T) {
	s := NewStore()
	f := file("a.jpg")
	require.NoError(t, s.Select(f))
	g := s.Generation()
	require.NoError(t, s.Select(f))
	assert.Equal(t, g+1, s.Generation())
}

func TestSelectRejectsInvalidFiles(t *testing.T) {
	s := NewStore()
	calls := 0
	s.Subscribe(func(Change) { calls++ })

	err := s.Select(nil)
	assert.True(t, errors.IsNoFileSelected(err))

	err = s.Select(&types.SelectedFile{Name: "empty.png", MediaType: "image/png"})
	require.Error(t, err)
	assert.Equal(t, errors.EmptyPayload, errors.KindOf(err))
	assert.Contains(t, err.Error(), "empty.png")

	assert.Equal(t, 0, calls, "rejected selections must not notify")
	assert.Equal(t, uint64(0), s.Generation())
}

func TestClear(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Select(file("a.jpg")))
	g := s.Generation()

	s.Clear()
	assert.False(t, s.HasFile())
	assert.Greater(t, s.Generation(), g)
}

func TestSubscribersRunInOrder(t *testing.T) {
	s := NewStore()
	var seen []string
	s.Subscribe(func(c Change) {
		name := "<none>"
		if c.File != nil {
			name = c.File.Name
		}
		seen = append(seen, "first:"+name)
	})
	s.Subscribe(func(c Change) {
		assert.Equal(t, s.Generation(), c.Generation)
		seen = append(seen, "second")
	})

	require.NoError(t, s.Select(file("a.jpg")))
	s.Clear()

	assert.Equal(t, []string{"first:a.jpg", "second", "first:<none>", "second"}, seen)
}
