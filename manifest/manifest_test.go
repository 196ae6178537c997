package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	assert := assert.New(t)

	m, err := Parse([]byte(`{
  // shown in the plugin store
  "title": "Harbour Pack",
  "version": 3,
  "author": "Lobby",
  "thumbnail": "thumb.png",
}`))
	require.NoError(t, err)

	assert.Equal("Harbour Pack", m.Title())
	assert.Equal("3", m.Version())
	assert.Equal("Harbour Pack 3.zip", m.ArchiveName())

	thumb, ok := m.Thumbnail()
	assert.True(ok)
	assert.Equal("thumb.png", thumb)
}

func TestStripThumbnail(t *testing.T) {
	assert := assert.New(t)

	m, err := Parse([]byte(`{"title":"T","thumbnail":"img/t.png","version":"1.0","desc":"Café"}`))
	require.NoError(t, err)

	thumb, ok, err := m.StripThumbnail()
	assert.NoError(err)
	assert.True(ok)
	assert.Equal("img/t.png", thumb)
	assert.Equal(`{"title":"T","version":"1.0","desc":"Café"}`, string(m.Encode()))

	_, ok, err = m.StripThumbnail()
	assert.NoError(err)
	assert.False(ok)
}

func TestParseRejects(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse([]byte(`[{"title":"T","version":"1"}]`))
	assert.True(errors.Is(err, ErrNotObject))

	_, err = Parse([]byte(`{"title":"T"}`))
	assert.ErrorContains(err, "invalid manifest")

	_, err = Parse([]byte(`{"title":["T"],"version":"1"}`))
	assert.ErrorContains(err, "invalid manifest")

	_, err = Parse([]byte(`{"title":`))
	assert.ErrorContains(err, "failed to parse manifest")
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"title":"T","version":"2"}`), 0644))

	m, err := Load(path)
	assert.NoError(err)
	assert.Equal("T 2.zip", m.ArchiveName())

	_, err = Load(filepath.Join(dir, "missing"))
	assert.True(errors.Is(err, os.ErrNotExist))
}
