// Package manifest reads the plugin.manifest descriptor at the root of a
// plugin directory.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/hayeah/ttbuild/internal/hujsonutil"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FileName is the manifest's name relative to the plugin root.
const FileName = "plugin.manifest"

// ErrNotObject is returned when the manifest does not hold a JSON object.
var ErrNotObject = errors.New("manifest should be a JSON object")

const schemaText = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["title", "version"],
  "properties": {
    "title": {"type": ["string", "number"]},
    "version": {"type": ["string", "number"]},
    "thumbnail": {"type": "string"}
  }
}`

var schema = jsonschema.MustCompileString("plugin.manifest.schema.json", schemaText)

// Manifest is a parsed plugin manifest. Member order is kept as written.
type Manifest struct {
	value *hujsonutil.Value
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a manifest. Comments and trailing commas are tolerated.
func Parse(data []byte) (*Manifest, error) {
	v, err := hujsonutil.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if v.Object() == nil {
		return nil, ErrNotObject
	}

	m := &Manifest{value: v}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) validate() error {
	dec := json.NewDecoder(bytes.NewReader(m.Encode()))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode manifest: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid manifest: %w", err)
	}
	return nil
}

func (m *Manifest) text(name string) string {
	if v := hujsonutil.Lookup(m.value.Object(), name); v != nil {
		return hujsonutil.Text(v)
	}
	return ""
}

// Title returns the plugin title.
func (m *Manifest) Title() string { return m.text("title") }

// Version returns the plugin version as written.
func (m *Manifest) Version() string { return m.text("version") }

// Thumbnail returns the thumbnail path relative to the plugin root.
func (m *Manifest) Thumbnail() (string, bool) {
	v := hujsonutil.Lookup(m.value.Object(), "thumbnail")
	if v == nil {
		return "", false
	}
	return hujsonutil.Text(v), true
}

// ArchiveName is the file name of the archive built for this plugin.
func (m *Manifest) ArchiveName() string {
	return fmt.Sprintf("%s %s.zip", m.Title(), m.Version())
}

// StripThumbnail removes the thumbnail field and returns the path it
// referenced.
func (m *Manifest) StripThumbnail() (string, bool, error) {
	thumb, ok := m.Thumbnail()
	if !ok {
		return "", false, nil
	}
	if _, err := m.value.Remove("/thumbnail"); err != nil {
		return "", false, fmt.Errorf("failed to remove thumbnail: %w", err)
	}
	return thumb, true, nil
}

// Encode returns the manifest as compact JSON.
func (m *Manifest) Encode() []byte {
	c := m.value.Clone()
	return hujsonutil.NewValue(&c).Compact()
}
