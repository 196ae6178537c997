// Package archive writes uncompressed plugin archives.
package archive

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

// Writer adds entries to a zip archive using the Store method, keeping the
// plugin's relative paths.
type Writer struct {
	zw      *zip.Writer
	f       *os.File
	entries []string
}

// Create creates the archive file at path, truncating any existing file.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}
	w := NewWriter(f)
	w.f = f
	return w, nil
}

// NewWriter writes an archive to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{zw: zip.NewWriter(w)}
}

// AddBytes stores data under name. name is slash-separated and relative.
func (w *Writer) AddBytes(name string, data []byte, modTime time.Time) error {
	dst, err := w.create(name, modTime)
	if err != nil {
		return err
	}
	_, err = dst.Write(data)
	return err
}

// AddFile stores the file at src under name.
func (w *Writer) AddFile(name, src string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	dst, err := w.create(name, info.ModTime())
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, f)
	return err
}

func (w *Writer) create(name string, modTime time.Time) (io.Writer, error) {
	clean := path.Clean(name)
	if clean == "." || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return nil, fmt.Errorf("invalid archive entry name %q", name)
	}

	hdr := &zip.FileHeader{
		Name:     clean,
		Method:   zip.Store,
		Modified: modTime,
	}
	dst, err := w.zw.CreateHeader(hdr)
	if err != nil {
		return nil, fmt.Errorf("failed to add %s: %w", clean, err)
	}
	w.entries = append(w.entries, clean)
	return dst, nil
}

// Entries returns the names added so far, in order.
func (w *Writer) Entries() []string {
	return w.entries
}

// Close finishes the archive and closes the underlying file, if any.
func (w *Writer) Close() error {
	err := w.zw.Close()
	if w.f != nil {
		if cerr := w.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
