package bencode

import (
	"bytes"
	"sort"
)

// Kind identifies which of the four bencode shapes a Value holds
type Kind uint8

const (
	// KindInt is a signed 64 bit integer
	KindInt Kind = iota + 1

	// KindBytes is a raw byte string
	KindBytes

	// KindList is an ordered list of values
	KindList

	// KindDict is a dictionary keyed by byte strings
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindBytes:
		return "byte string"
	case KindList:
		return "list"
	case KindDict:
		return "dictionary"
	}
	return "unknown"
}

// Value is a decoded bencode value. The only implementations are Int, Bytes, List and Dict.
type Value interface {
	Kind() Kind
	isValue()
}

// Int is a bencoded integer
type Int int64

// Bytes is a bencoded byte string. It is never assumed to be valid text.
type Bytes []byte

// List is an ordered bencoded list
type List []Value

// Dict is a bencoded dictionary. Keys are raw bytes stored in a Go string,
// they are sorted when encoded regardless of insertion order.
type Dict map[string]Value

func (Int) Kind() Kind   { return KindInt }
func (Bytes) Kind() Kind { return KindBytes }
func (List) Kind() Kind  { return KindList }
func (Dict) Kind() Kind  { return KindDict }

func (Int) isValue()   {}
func (Bytes) isValue() {}
func (List) isValue()  {}
func (Dict) isValue()  {}

// String is shorthand for a byte string built from text
func String(s string) Bytes {
	return Bytes(s)
}

// Keys returns the dictionary keys in canonical (byte-lexicographic) order
func (d Dict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the value stored under key and whether it was present
func (d Dict) Lookup(key string) (Value, bool) {
	v, ok := d[key]
	return v, ok
}

// Equal reports whether a and b are structurally equal. Dictionaries compare
// independent of key order, nil and empty byte strings are equal.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case Int:
		return av == b.(Int)
	case Bytes:
		return bytes.Equal(av, b.(Bytes))
	case List:
		bv := b.(List)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Dict:
		bv := b.(Dict)
		if len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			other, ok := bv[k]
			if !ok || !Equal(v, other) {
				return false
			}
		}
		return true
	}
	return false
}
