package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_RoundTrip(t *testing.T) {
	s := NewInMemoryStore()

	_, _, err := s.Latest()
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save("boat.png", []byte("png-bytes")))
	require.NoError(t, s.Save("boat_v2.png", []byte("png-bytes-2")))

	data, err := s.Get("boat.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	name, data, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, "boat_v2.png", name)
	assert.Equal(t, []byte("png-bytes-2"), data)

	names, err := s.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"boat.png", "boat_v2.png"}, names)
}

func TestInMemoryStore_CopiesOnSaveAndGet(t *testing.T) {
	s := NewInMemoryStore()
	buf := []byte("original")
	require.NoError(t, s.Save("a", buf))
	buf[0] = 'X'

	data, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), data)

	data[0] = 'Y'
	again, _ := s.Get("a")
	assert.Equal(t, []byte("original"), again)
}

func TestInMemoryStore_Delete(t *testing.T) {
	s := NewInMemoryStore()
	require.NoError(t, s.Save("a", []byte("x")))
	require.NoError(t, s.Delete("a"))
	assert.ErrorIs(t, s.Delete("a"), ErrNotFound)

	_, _, err := s.Latest()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir())

	_, _, err = s.Latest()
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save("boat.png", []byte("png-bytes")))

	data, err := s.Get("boat.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	// The latest mirror carries the same bytes under the well-known name.
	name, data, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, LatestFileName, name)
	assert.Equal(t, []byte("png-bytes"), data)

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"boat.png"}, names)

	require.NoError(t, s.Delete("boat.png"))
	_, err = s.Get("boat.png")
	assert.ErrorIs(t, err, ErrNotFound)
}
