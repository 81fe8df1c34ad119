package bencode

import (
	"io"
	"strconv"
)

// Encode returns the canonical encoding of v: minimal integer text, dictionary
// keys in ascending byte order. The only failure is a nil value somewhere in v.
func Encode(v Value) ([]byte, error) {
	return appendValue(nil, v)
}

// Encoder writes canonical encodings to an io.Writer
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an Encoder writing to w
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the canonical encoding of v
func (e *Encoder) Encode(v Value) error {
	buf, err := appendValue(nil, v)
	if err != nil {
		return err
	}
	_, err = e.w.Write(buf)
	return err
}

func appendValue(buf []byte, v Value) ([]byte, error) {
	var err error

	switch v := v.(type) {
	case Int:
		buf = append(buf, 'i')
		buf = strconv.AppendInt(buf, int64(v), 10)
		buf = append(buf, 'e')
	case Bytes:
		buf = appendBytes(buf, v)
	case List:
		buf = append(buf, 'l')
		for _, item := range v {
			if buf, err = appendValue(buf, item); err != nil {
				return nil, err
			}
		}
		buf = append(buf, 'e')
	case Dict:
		buf = append(buf, 'd')
		for _, k := range v.Keys() {
			buf = appendBytes(buf, []byte(k))
			if buf, err = appendValue(buf, v[k]); err != nil {
				return nil, err
			}
		}
		buf = append(buf, 'e')
	default:
		return nil, ErrNilValue
	}
	return buf, nil
}

func appendBytes(buf, b []byte) []byte {
	buf = strconv.AppendInt(buf, int64(len(b)), 10)
	buf = append(buf, ':')
	return append(buf, b...)
}
