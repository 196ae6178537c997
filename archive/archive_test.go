package archive

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterStoresEntries(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	src := filepath.Join(dir, "house.png")
	require.NoError(t, os.WriteFile(src, []byte("png-bytes"), 0644))

	out := filepath.Join(dir, "Plugin 1.zip")
	w, err := Create(out)
	require.NoError(t, err)

	assert.NoError(w.AddBytes("data/buildings.json", []byte(`[{"id":"a"}]`), time.Now()))
	assert.NoError(w.AddFile("img/house.png", src))
	assert.Equal([]string{"data/buildings.json", "img/house.png"}, w.Entries())
	require.NoError(t, w.Close())

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()

	require.Len(t, zr.File, 2)
	got := map[string]string{}
	for _, f := range zr.File {
		assert.Equal(zip.Store, f.Method, f.Name)
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		got[f.Name] = string(b)
	}
	assert.Equal(map[string]string{
		"data/buildings.json": `[{"id":"a"}]`,
		"img/house.png":       "png-bytes",
	}, got)
}

func TestWriterRejectsEscapingNames(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, name := range []string{"../x", "/abs", ".", "a/../../b"} {
		assert.Error(w.AddBytes(name, nil, time.Now()), name)
	}
	assert.Empty(w.Entries())
	assert.NoError(w.Close())
}
