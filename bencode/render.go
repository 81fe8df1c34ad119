package bencode

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Render returns a JSON rendering of v for display. Byte strings that are not
// valid UTF-8 are shown as "hex:<digits>", dictionaries in canonical key order.
func Render(v Value) string {
	var sb strings.Builder
	render(&sb, v)
	return sb.String()
}

func render(sb *strings.Builder, v Value) {
	switch v := v.(type) {
	case Int:
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	case Bytes:
		renderText(sb, v)
	case List:
		sb.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			render(sb, item)
		}
		sb.WriteByte(']')
	case Dict:
		sb.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				sb.WriteByte(',')
			}
			renderText(sb, []byte(k))
			sb.WriteByte(':')
			render(sb, v[k])
		}
		sb.WriteByte('}')
	default:
		sb.WriteString("null")
	}
}

func renderText(sb *strings.Builder, b []byte) {
	s := string(b)
	if !utf8.Valid(b) {
		s = "hex:" + hex.EncodeToString(b)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail
	_ = enc.Encode(s)
	sb.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}
