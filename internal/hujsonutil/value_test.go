package hujsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tailscale/hujson"
)

func TestRemoveMember(t *testing.T) {
	assert := assert.New(t)

	w, err := Parse([]byte(`{"title": "x", "thumbnail": "thumb.png", "version": 1}`))
	assert.NoError(err)

	removed, err := w.Remove("/thumbnail")
	assert.NoError(err)
	assert.True(removed)
	assert.False(w.Has("/thumbnail"))
	assert.Equal(`{"title":"x","version":1}`, string(w.Compact()))
}

func TestRemoveLastMemberWithComment(t *testing.T) {
	assert := assert.New(t)

	w, err := Parse([]byte("{\n  \"title\": \"H\",\n  \"thumbnail\": \"t.png\" // store only\n}"))
	assert.NoError(err)

	removed, err := w.Remove("/thumbnail")
	assert.NoError(err)
	assert.True(removed)
	assert.Equal(`{"title":"H"}`, string(w.Compact()))
}

func TestRemoveMissing(t *testing.T) {
	assert := assert.New(t)

	w, err := Parse([]byte(`{"title": "x"}`))
	assert.NoError(err)

	removed, err := w.Remove("/thumbnail")
	assert.NoError(err)
	assert.False(removed)
}

func TestRemoveNil(t *testing.T) {
	assert := assert.New(t)

	_, err := NewValue(nil).Remove("/a")
	assert.Error(err)
}

func TestCompactStripsComments(t *testing.T) {
	assert := assert.New(t)

	w, err := Parse([]byte("{\n  // the name\n  \"name\": \"caf\\u00e9\",\n  \"list\": [1, 2,],\n}"))
	assert.NoError(err)
	assert.Equal(`{"name":"café","list":[1,2]}`, string(w.Compact()))
}

func TestCompactKeepsLoneSurrogates(t *testing.T) {
	assert := assert.New(t)

	w, err := Parse([]byte(`["\ud800", "x\udc00", "\ud83d\ude00", "\\ud800", "\ud800\u0041"]`))
	assert.NoError(err)
	assert.Equal(`["\ud800","x\udc00","😀","\\ud800","\ud800\u0041"]`, string(w.Compact()))
}

func TestDedupe(t *testing.T) {
	assert := assert.New(t)

	w, err := Parse([]byte(`{"a":1,"b":{"c":1,"c":2},"a":3}`))
	assert.NoError(err)

	w.Dedupe()
	assert.Equal(`{"a":3,"b":{"c":2}}`, string(w.Compact()))
}

func TestObjectHelpers(t *testing.T) {
	assert := assert.New(t)

	w, err := Parse([]byte(`{"id":"x","drop":1,"keep":2}`))
	assert.NoError(err)
	obj := w.Object()
	assert.NotNil(obj)

	assert.Equal("x", Text(Lookup(obj, "id")))
	assert.Nil(Lookup(obj, "missing"))

	assert.True(Delete(obj, "drop"))
	assert.False(Delete(obj, "drop"))

	Set(obj, "keep", hujson.Bool(true))
	Set(obj, "new", hujson.String("v"))
	assert.Equal(`{"id":"x","keep":true,"new":"v"}`, string(w.Compact()))
}

func TestObjectOnArray(t *testing.T) {
	assert := assert.New(t)

	w, err := Parse([]byte(`[1]`))
	assert.NoError(err)
	assert.Nil(w.Object())
}
