package fs

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

type unicodeEncoding int

const (
	encodingUnknown unicodeEncoding = iota
	encodingUTF8BOM
	encodingUTF16LE
	encodingUTF16BE
)

func detectUnicodeEncoding(sample []byte) unicodeEncoding {
	if len(sample) >= 3 && sample[0] == 0xEF && sample[1] == 0xBB && sample[2] == 0xBF {
		return encodingUTF8BOM
	}
	if len(sample) >= 2 {
		switch {
		case sample[0] == 0xFF && sample[1] == 0xFE:
			return encodingUTF16LE
		case sample[0] == 0xFE && sample[1] == 0xFF:
			return encodingUTF16BE
		}
	}
	return encodingUnknown
}

// DecodeName turns raw name bytes into a displayable NFC string. A UTF-8 or
// UTF-16 byte order mark selects that encoding; bytes that are not valid UTF-8
// are read as ISO-8859-1, which is what older peers write.
func DecodeName(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}

	var decoded string
	switch detectUnicodeEncoding(raw) {
	case encodingUTF8BOM:
		decoded = decodeUTF8OrLatin1(raw[3:])
	case encodingUTF16LE:
		decoded = decodeUTF16(raw, unicode.LittleEndian)
	case encodingUTF16BE:
		decoded = decodeUTF16(raw, unicode.BigEndian)
	default:
		decoded = decodeUTF8OrLatin1(raw)
	}
	return norm.NFC.String(decoded)
}

// DisplayName is DecodeName for names that are already Go strings, such as
// directory entries read from disk.
func DisplayName(name string) string {
	if utf8.ValidString(name) {
		return norm.NFC.String(name)
	}
	return DecodeName([]byte(name))
}

func decodeUTF8OrLatin1(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

func decodeUTF16(content []byte, endian unicode.Endianness) string {
	decoder := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder()
	out, err := decoder.Bytes(content)
	if err != nil {
		return decodeUTF8OrLatin1(content)
	}
	return string(out)
}
