package jsondoc

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind is the category of a JSON value
type Kind string

const (
	KindObject  Kind = "object"
	KindArray   Kind = "array"
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindNull    Kind = "null"
	KindUnknown Kind = "unknown"
)

// IsContainer reports whether values of this kind have children
func (k Kind) IsContainer() bool {
	return k == KindObject || k == KindArray
}

// Number holds a JSON number in its literal form (e.g. "1.50", "-3e2")
type Number string

// MarshalJSON writes the literal unchanged
func (n Number) MarshalJSON() ([]byte, error) {
	if n == "" {
		return []byte("0"), nil
	}
	return []byte(n), nil
}

// Object is an ordered JSON object. Keys keep their insertion order.
type Object struct {
	m *orderedmap.OrderedMap[string, any]
}

// NewObject creates an empty object
func NewObject() *Object {
	return &Object{m: orderedmap.New[string, any]()}
}

// Set stores value under key. An existing key keeps its position.
func (o *Object) Set(key string, value any) {
	o.m.Set(key, value)
}

// Get returns the value stored under key
func (o *Object) Get(key string) (any, bool) {
	return o.m.Get(key)
}

// Delete removes key and reports whether it was present
func (o *Object) Delete(key string) bool {
	_, present := o.m.Delete(key)
	return present
}

// Rename moves the value under oldKey to newKey, keeping its position. It
// fails if oldKey is missing or newKey is already taken.
func (o *Object) Rename(oldKey, newKey string) bool {
	pair := o.m.GetPair(oldKey)
	if pair == nil {
		return false
	}
	if oldKey == newKey {
		return true
	}
	if _, taken := o.m.Get(newKey); taken {
		return false
	}

	value := pair.Value
	next := pair.Next()
	o.m.Delete(oldKey)
	o.m.Set(newKey, value)
	if next != nil {
		_ = o.m.MoveBefore(newKey, next.Key)
	}
	return true
}

// Len returns the number of keys
func (o *Object) Len() int {
	return o.m.Len()
}

// Keys returns the keys in insertion order
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.m.Len())
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each calls fn for every entry in insertion order until fn returns false
func (o *Object) Each(fn func(key string, value any) bool) {
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// MarshalJSON encodes the object preserving key order
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	var err error
	o.Each(func(key string, value any) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		var kb, vb []byte
		if kb, err = marshalValue(key); err != nil {
			return false
		}
		if vb, err = marshalValue(value); err != nil {
			return false
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Array is a JSON array. Items are mutated in place.
type Array struct {
	Items []any
}

// NewArray creates an array holding items
func NewArray(items ...any) *Array {
	if items == nil {
		items = []any{}
	}
	return &Array{Items: items}
}

// Len returns the number of elements
func (a *Array) Len() int {
	return len(a.Items)
}

// RemoveAt removes the element at i, shifting later elements down by one
func (a *Array) RemoveAt(i int) {
	a.Items = append(a.Items[:i], a.Items[i+1:]...)
}

// MarshalJSON encodes the array
func (a *Array) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range a.Items {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := marshalValue(item)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// marshalValue encodes a document value without HTML escaping, so literal
// text survives copy and export unchanged
func marshalValue(v any) ([]byte, error) {
	switch val := v.(type) {
	case *Object:
		return val.MarshalJSON()
	case *Array:
		return val.MarshalJSON()
	case Number:
		return val.MarshalJSON()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
