package reader

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrorPolicy controls how decode errors are handled, mirroring the
// strict/replace/ignore policies of common text codecs.
type ErrorPolicy string

const (
	// Strict fails on the first invalid byte sequence.
	Strict ErrorPolicy = "strict"
	// Replace substitutes U+FFFD for invalid byte sequences.
	Replace ErrorPolicy = "replace"
	// Ignore drops invalid byte sequences.
	Ignore ErrorPolicy = "ignore"
)

// TextOptions selects the encoding and error policy for text decoding.
// The zero value means UTF-8 with strict error handling.
type TextOptions struct {
	Encoding string
	Errors   ErrorPolicy
}

// DecodeText decodes raw bytes per the given options.
// Supported encodings: utf-8 (default), latin-1 / iso-8859-1, ascii / us-ascii.
func DecodeText(b []byte, opts TextOptions) (string, error) {
	policy := opts.Errors
	if policy == "" {
		policy = Strict
	}

	switch normalizeEncoding(opts.Encoding) {
	case "utf-8":
		return decodeUTF8(b, policy)
	case "latin-1":
		return decodeLatin1(b), nil
	case "ascii":
		return decodeASCII(b, policy)
	default:
		return "", fmt.Errorf("unknown encoding %q", opts.Encoding)
	}
}

func normalizeEncoding(enc string) string {
	switch strings.ToLower(enc) {
	case "", "utf-8", "utf8":
		return "utf-8"
	case "latin-1", "latin1", "iso-8859-1":
		return "latin-1"
	case "ascii", "us-ascii":
		return "ascii"
	default:
		return enc
	}
}

func decodeUTF8(b []byte, policy ErrorPolicy) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}
	switch policy {
	case Replace:
		return strings.ToValidUTF8(string(b), "�"), nil
	case Ignore:
		return strings.ToValidUTF8(string(b), ""), nil
	default:
		return "", fmt.Errorf("invalid utf-8 byte sequence")
	}
}

// decodeLatin1 maps every byte to the rune with the same code point.
// Latin-1 decoding cannot fail.
func decodeLatin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

func decodeASCII(b []byte, policy ErrorPolicy) (string, error) {
	var sb strings.Builder
	sb.Grow(len(b))
	for i, c := range b {
		if c < 0x80 {
			sb.WriteByte(c)
			continue
		}
		switch policy {
		case Replace:
			sb.WriteRune('�')
		case Ignore:
			// dropped
		default:
			return "", fmt.Errorf("non-ascii byte 0x%02x at offset %d", c, i)
		}
	}
	return sb.String(), nil
}
