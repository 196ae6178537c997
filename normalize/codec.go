package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/hayeah/ttbuild/internal/hujsonutil"
	"github.com/tailscale/hujson"
)

// Document is a decoded top-level array of plugin objects. Key order and
// element order are those of the source text.
type Document struct {
	root *hujsonutil.Value
}

// Decode parses text as strict JSON. The top-level value must be an array
// whose elements are all objects.
func Decode(text string) (*Document, error) {
	b := []byte(text)
	if !json.Valid(b) {
		// hujson accepts comments and trailing commas, so strictness is
		// checked with the standard decoder first.
		var discard any
		err := json.Unmarshal(b, &discard)
		if err == nil {
			err = fmt.Errorf("invalid JSON")
		}
		return nil, &MalformedDocumentError{Stage: "decode", Err: err}
	}

	root, err := hujsonutil.Parse(b)
	if err != nil {
		return nil, &MalformedDocumentError{Stage: "decode", Err: err}
	}

	arr, ok := root.Value.Value.(*hujson.Array)
	if !ok {
		return nil, &MalformedDocumentError{Stage: "shape", Err: fmt.Errorf("top-level value is not an array")}
	}
	for i, elem := range arr.Elements {
		if _, ok := elem.Value.(*hujson.Object); !ok {
			return nil, &MalformedDocumentError{Stage: "shape", Err: fmt.Errorf("element %d is not an object", i)}
		}
	}

	root.Dedupe()
	return &Document{root: root}, nil
}

// Objects returns the plugin objects in document order.
func (d *Document) Objects() []*hujson.Object {
	arr := d.root.Value.Value.(*hujson.Array)
	objs := make([]*hujson.Object, 0, len(arr.Elements))
	for i := range arr.Elements {
		objs = append(objs, arr.Elements[i].Value.(*hujson.Object))
	}
	return objs
}

// Len returns the number of objects in the document.
func (d *Document) Len() int {
	return len(d.root.Value.Value.(*hujson.Array).Elements)
}

// Encode serializes the document as compact JSON.
func (d *Document) Encode() string {
	return string(d.root.Compact())
}
