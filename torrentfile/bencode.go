package torrentfile

import (
	"fmt"
	"unicode/utf8"

	"github.com/Squwid/squidcodec/bencode"
)

// field looks up key in d and asserts it holds a T. A missing key is not an
// error, present reports whether it was there.
func field[T bencode.Value](d bencode.Dict, key string) (v T, present bool, err error) {
	raw, ok := d[key]
	if !ok {
		return v, false, nil
	}
	v, ok = raw.(T)
	if !ok {
		return v, true, fmt.Errorf("%w: %q is a %v, expected %v", ErrInvalidField, key, kindOf(raw), v.Kind())
	}
	return v, true, nil
}

func requireField[T bencode.Value](d bencode.Dict, key string) (T, error) {
	v, present, err := field[T](d, key)
	if err != nil {
		return v, err
	}
	if !present {
		return v, fmt.Errorf("%w: missing %q", ErrInvalidField, key)
	}
	return v, nil
}

// textField reads an optional byte string that has to be valid UTF-8
func textField(d bencode.Dict, key string) (string, bool, error) {
	b, present, err := field[bencode.Bytes](d, key)
	if err != nil || !present {
		return "", present, err
	}
	if !utf8.Valid(b) {
		return "", true, fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidField, key)
	}
	return string(b), true, nil
}

func requireText(d bencode.Dict, key string) (string, error) {
	s, present, err := textField(d, key)
	if err != nil {
		return "", err
	}
	if !present {
		return "", fmt.Errorf("%w: missing %q", ErrInvalidField, key)
	}
	return s, nil
}

// stringList converts a list of byte strings, labelling errors with key
func stringList(l bencode.List, key string) ([]string, error) {
	out := make([]string, 0, len(l))
	for i, item := range l {
		b, ok := item.(bencode.Bytes)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is a %v, expected byte string", ErrInvalidField, key, i, kindOf(item))
		}
		out = append(out, string(b))
	}
	return out, nil
}

func kindOf(v bencode.Value) bencode.Kind {
	if v == nil {
		return 0
	}
	return v.Kind()
}
