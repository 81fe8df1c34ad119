package bencode

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	zbencode "github.com/zeebo/bencode"
)

func TestEncode(t *testing.T) {
	tests := map[string]struct {
		input Value
		want  string
	}{
		"integer":            {input: Int(52), want: "i52e"},
		"negative integer":   {input: Int(-3), want: "i-3e"},
		"zero":               {input: Int(0), want: "i0e"},
		"byte string":        {input: String("spam"), want: "4:spam"},
		"empty byte string":  {input: Bytes{}, want: "0:"},
		"nil byte string":    {input: Bytes(nil), want: "0:"},
		"binary byte string": {input: Bytes{0x00, 0xff}, want: "2:\x00\xff"},
		"list":               {input: List{String("spam"), String("eggs")}, want: "l4:spam4:eggse"},
		"empty list":         {input: List{}, want: "le"},
		"empty dictionary":   {input: Dict{}, want: "de"},
		"sorted dictionary": {
			input: Dict{"cow": String("moo"), "spam": String("eggs")},
			want:  "d3:cow3:moo4:spam4:eggse",
		},
		"keys sorted on encode": {
			input: Dict{"spam": Int(1), "cow": Int(2)},
			want:  "d3:cowi2e4:spami1ee",
		},
		"keys sorted by bytes not text": {
			input: Dict{"b": Int(1), "B": Int(2), "\xff": Int(3), "a\x00": Int(4), "a": Int(5)},
			want:  "d1:Bi2e1:ai5e2:a\x00i4e1:bi1e1:\xffi3ee",
		},
		"nested": {
			input: Dict{"spam": List{String("a"), String("b")}},
			want:  "d4:spaml1:a1:bee",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Encode(test.input)
			require.NoError(t, err)
			assert.Equal(t, test.want, string(got))
		})
	}
}

func TestEncodeNil(t *testing.T) {
	_, err := Encode(nil)
	assert.ErrorIs(t, err, ErrNilValue)

	_, err = Encode(List{Int(1), nil})
	assert.ErrorIs(t, err, ErrNilValue)

	_, err = Encode(Dict{"a": nil})
	assert.ErrorIs(t, err, ErrNilValue)
}

func TestEncoderWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(Dict{"spam": Int(1), "cow": Int(2)}))
	assert.Equal(t, "d3:cowi2e4:spami1ee", buf.String())

	err := NewEncoder(failingWriter{}).Encode(Int(1))
	assert.EqualError(t, err, "write failed")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("write failed") }

func TestRoundTrip(t *testing.T) {
	values := []Value{
		Int(0),
		Int(-9223372036854775808),
		String(""),
		Bytes{0x00, 0x01, 'e', ':', 0xff},
		List{},
		List{Int(1), List{List{}}, Dict{}},
		Dict{"z": Int(1), "a": List{String("x")}, "\x00\xff": Bytes{0xde, 0xad}},
		Dict{
			"announce": String("http://tracker.example/announce"),
			"info": Dict{
				"pieces":       Bytes(bytes.Repeat([]byte{0xab}, 40)),
				"piece length": Int(262144),
				"name":         String("example.iso"),
				"length":       Int(500000),
			},
		},
	}

	for _, v := range values {
		enc, err := Encode(v)
		require.NoError(t, err)

		decoded, err := DecodeExact(enc)
		require.NoError(t, err, "%q", enc)
		assert.True(t, Equal(v, decoded), "round trip of %q", enc)

		again, err := Encode(decoded)
		require.NoError(t, err)
		assert.Equal(t, enc, again)
	}
}

// Decoding non canonical input and encoding it again yields canonical bytes
func TestCanonicalReencode(t *testing.T) {
	v, err := DecodeExact([]byte("d4:spami1e3:cowd1:zi0e1:ai0eee"))
	require.NoError(t, err)

	enc, err := Encode(v)
	require.NoError(t, err)
	assert.Equal(t, "d3:cowd1:ai0e1:zi0ee4:spami1ee", string(enc))

	v2, err := DecodeExact(enc)
	require.NoError(t, err)
	enc2, err := Encode(v2)
	require.NoError(t, err)
	assert.Equal(t, enc, enc2)
}

// Canonical bytes must match what an independent encoder produces for the same data
func TestEncodeMatchesZeebo(t *testing.T) {
	values := []Value{
		Int(-42),
		String("spam"),
		List{String("spam"), Int(7)},
		Dict{"spam": Int(1), "cow": Int(2), "b": List{String("x"), Int(-1)}},
		Dict{
			"name":         String("example.iso"),
			"piece length": Int(16384),
			"pieces":       String("aaaaaaaaaaaaaaaaaaaa"),
			"length":       Int(16000),
			"files": List{
				Dict{"path": List{String("dir"), String("a.txt")}, "length": Int(3)},
			},
		},
	}

	for _, v := range values {
		want, err := zbencode.EncodeBytes(toInterface(v))
		require.NoError(t, err)

		got, err := Encode(v)
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got))
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(Int(1), nil))
	assert.True(t, Equal(Bytes(nil), Bytes{}))
	assert.False(t, Equal(Int(1), String("1")))
	assert.False(t, Equal(List{Int(1)}, List{Int(1), Int(2)}))
	assert.False(t, Equal(List{Int(1)}, List{Int(2)}))
	assert.True(t, Equal(Dict{"a": Int(1), "b": Int(2)}, Dict{"b": Int(2), "a": Int(1)}))
	assert.False(t, Equal(Dict{"a": Int(1)}, Dict{"b": Int(1)}))
	assert.False(t, Equal(Dict{"a": Int(1)}, Dict{"a": Int(1), "b": Int(1)}))
}

func TestDictKeys(t *testing.T) {
	d := Dict{"spam": Int(1), "cow": Int(2), "\x01": Int(3)}
	assert.Equal(t, []string{"\x01", "cow", "spam"}, d.Keys())

	v, ok := d.Lookup("cow")
	assert.True(t, ok)
	assert.Equal(t, Int(2), v)

	_, ok = d.Lookup("moo")
	assert.False(t, ok)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "integer", Int(1).Kind().String())
	assert.Equal(t, "byte string", Bytes{}.Kind().String())
	assert.Equal(t, "list", List{}.Kind().String())
	assert.Equal(t, "dictionary", Dict{}.Kind().String())
	assert.Equal(t, "unknown", Kind(0).String())
}
