package hujsonutil

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/tailscale/hujson"
)

// Value wraps hujson.Value to provide convenience helpers.
type Value struct {
	*hujson.Value
}

// NewValue wraps a hujson.Value.
func NewValue(v *hujson.Value) *Value {
	return &Value{Value: v}
}

// Parse parses HuJSON (JSON with comments and trailing commas).
func Parse(b []byte) (*Value, error) {
	v, err := hujson.Parse(b)
	if err != nil {
		return nil, err
	}
	return NewValue(&v), nil
}

// Object returns the object held by v, or nil if v is not an object.
func (v *Value) Object() *hujson.Object {
	if v.Value == nil {
		return nil
	}
	obj, _ := v.Value.Value.(*hujson.Object)
	return obj
}

// Has reports whether the value at the JSON pointer path exists.
func (v *Value) Has(path string) bool {
	return v.Value != nil && v.Find(path) != nil
}

// Remove deletes the value located at path. The path uses JSON Pointer
// syntax. Removing a path that does not exist is a no-op and reports false.
func (v *Value) Remove(path string) (bool, error) {
	if v.Value == nil {
		return false, fmt.Errorf("nil Value")
	}
	if v.Find(path) == nil {
		return false, nil
	}

	patch := fmt.Sprintf(`[{"op":"remove","path":%s}]`, string(hujson.String(path)))
	if err := v.Patch([]byte(patch)); err != nil {
		return false, err
	}
	return true, nil
}

// Compact returns v as standard JSON with no insignificant whitespace.
// Strings are re-encoded so non-ASCII text is written unescaped. A string
// holding a lone UTF-16 surrogate escape keeps its source text, since
// decoding it would replace the escape with U+FFFD.
func (v *Value) Compact() []byte {
	for elem := range v.All() {
		if lit, ok := elem.Value.(hujson.Literal); ok && lit.Kind() == '"' && !hasLoneSurrogate(lit) {
			elem.Value = hujson.String(lit.String())
		}
	}
	v.Minimize()
	return v.Pack()
}

// Dedupe collapses repeated member names in every object under v. The last
// value wins and keeps the position of the first occurrence.
func (v *Value) Dedupe() {
	for elem := range v.All() {
		obj, ok := elem.Value.(*hujson.Object)
		if !ok || len(obj.Members) < 2 {
			continue
		}
		seen := make(map[string]int, len(obj.Members))
		members := obj.Members[:0]
		for _, m := range obj.Members {
			name := Name(m)
			if i, dup := seen[name]; dup {
				members[i].Value = m.Value
				continue
			}
			seen[name] = len(members)
			members = append(members, m)
		}
		obj.Members = members
	}
}

// Name returns the unquoted name of an object member.
func Name(m hujson.ObjectMember) string {
	if lit, ok := m.Name.Value.(hujson.Literal); ok {
		return lit.String()
	}
	return ""
}

// Lookup returns the value of the first member called name.
func Lookup(obj *hujson.Object, name string) *hujson.Value {
	for i := range obj.Members {
		if Name(obj.Members[i]) == name {
			return &obj.Members[i].Value
		}
	}
	return nil
}

// Delete removes every member called name and reports whether one existed.
func Delete(obj *hujson.Object, name string) bool {
	found := false
	members := obj.Members[:0]
	for _, m := range obj.Members {
		if Name(m) == name {
			found = true
			continue
		}
		members = append(members, m)
	}
	obj.Members = members
	return found
}

// Set replaces the value of the member called name, or appends a new member
// when there is none.
func Set(obj *hujson.Object, name string, val hujson.ValueTrimmed) {
	if existing := Lookup(obj, name); existing != nil {
		existing.Value = val
		return
	}
	obj.Members = append(obj.Members, hujson.ObjectMember{
		Name:  hujson.Value{Value: hujson.String(name)},
		Value: hujson.Value{Value: val},
	})
}

// Text renders a value for humans: strings unquoted, everything else as
// compact JSON.
func Text(v *hujson.Value) string {
	if lit, ok := v.Value.(hujson.Literal); ok && lit.Kind() == '"' {
		return lit.String()
	}
	c := v.Clone()
	c.Minimize()
	return strings.TrimSpace(string(c.Pack()))
}

// hasLoneSurrogate reports whether the string literal contains a \uXXXX
// surrogate escape that is not part of a high/low pair.
func hasLoneSurrogate(lit []byte) bool {
	for i := 0; i < len(lit); i++ {
		if lit[i] != '\\' {
			continue
		}
		i++
		if i >= len(lit) || lit[i] != 'u' {
			continue
		}
		r, ok := hex4(lit, i+1)
		if !ok {
			continue
		}
		i += 4
		if !utf16.IsSurrogate(r) {
			continue
		}
		if r >= 0xdc00 {
			return true
		}
		if i+6 < len(lit) && lit[i+1] == '\\' && lit[i+2] == 'u' {
			if low, ok := hex4(lit, i+3); ok && low >= 0xdc00 && low <= 0xdfff {
				i += 6
				continue
			}
		}
		return true
	}
	return false
}

func hex4(b []byte, at int) (rune, bool) {
	if at+4 > len(b) {
		return 0, false
	}
	n, err := strconv.ParseUint(string(b[at:at+4]), 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(n), true
}
