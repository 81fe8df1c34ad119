package bencode

import (
	"strconv"
)

// DefaultMaxDepth is the deepest list/dictionary nesting accepted when a
// Decoder does not set its own limit.
const DefaultMaxDepth = 512

// Decoder decodes bencoded byte slices. The zero value is ready to use and a
// Decoder holds no state between calls, so it may be shared between goroutines.
type Decoder struct {
	// MaxDepth bounds nesting of lists and dictionaries, DefaultMaxDepth when <= 0
	MaxDepth int
}

// Decode decodes the first value in data with the default limits, returning
// the value and the number of bytes it occupied.
func Decode(data []byte) (Value, int, error) {
	var d Decoder
	return d.Decode(data)
}

// DecodeExact decodes data, which must contain exactly one value and nothing after it
func DecodeExact(data []byte) (Value, error) {
	var d Decoder
	return d.DecodeExact(data)
}

// Decode decodes the first value in data, returning the value and the number of bytes it occupied.
func (d *Decoder) Decode(data []byte) (Value, int, error) {
	s := decodeState{data: data, maxDepth: d.maxDepth()}
	v, err := s.value(0)
	if err != nil {
		return nil, 0, err
	}
	return v, s.pos, nil
}

// DecodeExact decodes data, which must contain exactly one value and nothing after it
func (d *Decoder) DecodeExact(data []byte) (Value, error) {
	v, n, err := d.Decode(data)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, syntaxErr(n, ErrTrailingData)
	}
	return v, nil
}

func (d *Decoder) maxDepth() int {
	if d == nil || d.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return d.MaxDepth
}

// decodeState is a single pass over one input. depth counts the containers
// enclosing the value currently being decoded.
type decodeState struct {
	data     []byte
	pos      int
	maxDepth int
}

func (s *decodeState) value(depth int) (Value, error) {
	if s.pos >= len(s.data) {
		// Running out inside a container means the container was cut short
		if depth == 0 {
			return nil, syntaxErr(s.pos, ErrUnrecognizedTag)
		}
		return nil, syntaxErr(s.pos, ErrTruncatedInput)
	}

	switch c := s.data[s.pos]; {
	case c == 'i':
		return s.integer(depth)
	case c == 'l':
		if depth >= s.maxDepth {
			return nil, syntaxErr(s.pos, ErrNestingTooDeep)
		}
		return s.list(depth + 1)
	case c == 'd':
		if depth >= s.maxDepth {
			return nil, syntaxErr(s.pos, ErrNestingTooDeep)
		}
		return s.dict(depth + 1)
	case isDigit(c):
		b, err := s.byteString()
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	return nil, syntaxErr(s.pos, ErrUnrecognizedTag)
}

// integer reads i<digits>e with an optional minus sign. A missing terminator
// is a malformed integer on its own and a truncated container inside one.
func (s *decodeState) integer(depth int) (Value, error) {
	start := s.pos
	s.pos++ // 'i'

	negative := s.pos < len(s.data) && s.data[s.pos] == '-'
	if negative {
		s.pos++
	}

	digitsStart := s.pos
	for s.pos < len(s.data) && isDigit(s.data[s.pos]) {
		s.pos++
	}
	if s.pos >= len(s.data) {
		if depth == 0 {
			return nil, syntaxErr(s.pos, ErrMalformedInteger)
		}
		return nil, syntaxErr(s.pos, ErrTruncatedInput)
	}
	if s.data[s.pos] != 'e' {
		return nil, syntaxErr(s.pos, ErrMalformedInteger)
	}

	digits := s.data[digitsStart:s.pos]
	if len(digits) == 0 {
		return nil, syntaxErr(digitsStart, ErrMalformedInteger)
	}
	// No leading zeros, no negative zero
	if digits[0] == '0' && (len(digits) > 1 || negative) {
		return nil, syntaxErr(digitsStart, ErrMalformedInteger)
	}

	n, err := strconv.ParseInt(string(s.data[start+1:s.pos]), 10, 64)
	if err != nil {
		return nil, syntaxErr(start, ErrMalformedInteger)
	}
	s.pos++ // 'e'
	return Int(n), nil
}

// byteString reads <length>:<raw bytes>. The declared length is checked
// against what is left of the input before anything is allocated.
func (s *decodeState) byteString() (Bytes, error) {
	start := s.pos
	for s.pos < len(s.data) && isDigit(s.data[s.pos]) {
		s.pos++
	}
	if s.pos >= len(s.data) {
		return nil, syntaxErr(s.pos, ErrTruncatedInput)
	}
	if s.pos == start || s.data[s.pos] != ':' {
		return nil, syntaxErr(s.pos, ErrMalformedLength)
	}

	digits := s.data[start:s.pos]
	if digits[0] == '0' && len(digits) > 1 {
		return nil, syntaxErr(start, ErrMalformedLength)
	}
	n, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return nil, syntaxErr(start, ErrMalformedLength)
	}
	s.pos++ // ':'

	if n > int64(len(s.data)-s.pos) {
		return nil, syntaxErr(s.pos, ErrTruncatedInput)
	}

	// Copy so the value never aliases the caller's buffer
	b := make(Bytes, n)
	copy(b, s.data[s.pos:])
	s.pos += int(n)
	return b, nil
}

func (s *decodeState) list(depth int) (Value, error) {
	s.pos++ // 'l'

	l := List{}
	for {
		if s.pos >= len(s.data) {
			return nil, syntaxErr(s.pos, ErrTruncatedInput)
		}
		if s.data[s.pos] == 'e' {
			s.pos++
			return l, nil
		}

		v, err := s.value(depth)
		if err != nil {
			return nil, err
		}
		l = append(l, v)
	}
}

func (s *decodeState) dict(depth int) (Value, error) {
	s.pos++ // 'd'

	d := Dict{}
	for {
		if s.pos >= len(s.data) {
			return nil, syntaxErr(s.pos, ErrTruncatedInput)
		}

		c := s.data[s.pos]
		if c == 'e' {
			s.pos++
			return d, nil
		}

		keyStart := s.pos
		switch {
		case c == 'i' || c == 'l' || c == 'd':
			return nil, syntaxErr(keyStart, ErrNonStringKey)
		case !isDigit(c):
			return nil, syntaxErr(keyStart, ErrUnrecognizedTag)
		}

		key, err := s.byteString()
		if err != nil {
			return nil, err
		}
		if _, ok := d[string(key)]; ok {
			return nil, syntaxErr(keyStart, ErrDuplicateKey)
		}

		v, err := s.value(depth)
		if err != nil {
			return nil, err
		}
		d[string(key)] = v
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
