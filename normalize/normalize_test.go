package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hayeah/ttbuild/internal/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFixture(t *testing.T) {
	assert := assert.New(t)

	data, err := os.ReadFile(filepath.Join("testdata", "plugins", "harbour.json"))
	require.NoError(t, err)

	var buf bytes.Buffer
	out, err := NormalizeBytes(data, newTestLogger(&buf))
	require.NoError(t, err)

	assert.True(json.Valid([]byte(out)))
	assert.EqualToFixture("harbour.json", out)
	assert.Contains(buf.String(), `msg="muted Lua" id=$harbour_crane00`)
	assert.Contains(buf.String(), `msg="muted Lua" id=$harbour_pier00`)
}

func TestNormalizeStrictInputIsIdempotent(t *testing.T) {
	assert := assert.New(t)

	input := `[
  {"id": "a", "title": "Two words", "n": 1.25, "flags": [true, false, null], "nested": {"k": "v"}},
  {"id": "b", "count": -3, "exp": 2e10}
]`
	out, err := Normalize(strings.NewReader(input), nil)
	require.NoError(t, err)

	assert.JSONEq(input, out)
	assert.Equal(`[{"id":"a","title":"Two words","n":1.25,"flags":[true,false,null],"nested":{"k":"v"}},{"id":"b","count":-3,"exp":2e10}]`, out)

	again, err := Normalize(strings.NewReader(out), nil)
	require.NoError(t, err)
	assert.Equal(out, again)
}

func TestNormalizeProperties(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"comment removed", "[{\"a\": 1} // comment\n]", `[{"a":1}]`},
		{"slashes in string", "[{\"a\": \"http://x\"}]", `[{"a":"http://x"}]`},
		{"bare values", "[{\"type\": wall, \"count\": 5, \"n\": 1a, \"z\": 0}]", `[{"type":"wall","count":5,"n":"1a","z":0}]`},
		{"trailing garbage", "[{\"a\":1}] garbage after", `[{"a":1}]`},
		{"strict lua removed", `[{"id":"y","strict lua":true}]`, `[{"id":"y"}]`},
		{"mute lua forced", `[{"id":"z","mute lua":"no","scripts":["a.lua"]}]`, `[{"id":"z","mute lua":true,"scripts":["a.lua"]}]`},
		{"byte order mark", "\ufeff[{\"a\":1}]", `[{"a":1}]`},
	}

	for _, tt := range tests {
		out, err := Normalize(strings.NewReader(tt.in), Discard)
		assert.NoError(err, tt.name)
		assert.Equal(tt.want, out, tt.name)
	}
}

func TestNormalizePreservesCount(t *testing.T) {
	assert := assert.New(t)

	var b strings.Builder
	b.WriteString("[\n")
	for i := 0; i < 50; i++ {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString(`{"id": "p`)
		b.WriteString(strings.Repeat("x", i))
		b.WriteString(`", "script": "s.lua"}`)
	}
	b.WriteString("\n]\n")

	out, err := Normalize(strings.NewReader(b.String()), Discard)
	require.NoError(t, err)

	var objs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &objs))
	assert.Len(objs, 50)
	for i, obj := range objs {
		assert.Equal("p"+strings.Repeat("x", i), obj["id"])
		assert.Equal(true, obj["mute lua"])
	}
}

func TestNormalizeErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := Normalize(strings.NewReader("[{\"a\": \"\xc3\x28\"}]"), Discard)
	var decErr *DecodeError
	assert.True(errors.As(err, &decErr))

	_, err = Normalize(strings.NewReader(`[{"a":1}`), Discard)
	var malformed *MalformedDocumentError
	assert.True(errors.As(err, &malformed))

	// Balanced but still not JSON after cleaning.
	_, err = Normalize(strings.NewReader(`[{"a":1,}]`), Discard)
	assert.True(errors.As(err, &malformed))
	assert.Equal("decode", malformed.Stage)

	_, err = Normalize(strings.NewReader(`[{"id":"x","privileged":true}]`), Discard)
	var deprecated *DeprecatedFieldError
	assert.True(errors.As(err, &deprecated))
	assert.Equal("x", deprecated.ID)
}

func TestNormalizeMultiLineValueNotRepaired(t *testing.T) {
	assert := assert.New(t)

	// A bare value whose terminator sits on the next line is left bare, so
	// decoding fails.
	_, err := Normalize(strings.NewReader("[{\"type\": wall\n}]"), Discard)
	var malformed *MalformedDocumentError
	assert.True(errors.As(err, &malformed))
}
