package parser

import (
	"bytes"
	"unicode/utf8"
)

// The regenerated unified artifact is written with a UTF-8 BOM (utf-8-sig)
// so spreadsheet tools render accents correctly; it must round-trip here.
var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// decodeToUTF8 strips a UTF-8 BOM when present and falls back to Latin-1
// decoding for byte sequences that are not valid UTF-8. Legacy CSV exports
// of the customer table carry accented city names in ISO 8859-1.
func decodeToUTF8(data []byte) []byte {
	if bytes.HasPrefix(data, bomUTF8) {
		data = data[3:]
	}
	if utf8.Valid(data) {
		return data
	}
	return decodeLatin1(data)
}

// decodeLatin1 converts Latin-1 (ISO 8859-1) bytes to UTF-8. Every byte
// maps directly to the same Unicode code point.
func decodeLatin1(data []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(data) * 2)
	for _, b := range data {
		if b < 0x80 {
			buf.WriteByte(b)
		} else {
			buf.WriteRune(rune(b))
		}
	}
	return buf.Bytes()
}
