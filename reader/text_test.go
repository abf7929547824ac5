package reader

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeTextUTF8(t *testing.T) {
	got, err := DecodeText([]byte("héllo"), TextOptions{})
	require.NoError(t, err)
	require.Equal(t, "héllo", got)
}

func TestDecodeTextUTF8Invalid(t *testing.T) {
	invalid := []byte{'a', 0xff, 'b'}

	_, err := DecodeText(invalid, TextOptions{Errors: Strict})
	require.Error(t, err)

	got, err := DecodeText(invalid, TextOptions{Errors: Replace})
	require.NoError(t, err)
	require.Equal(t, "a�b", got)

	got, err = DecodeText(invalid, TextOptions{Errors: Ignore})
	require.NoError(t, err)
	require.Equal(t, "ab", got)
}

func TestDecodeTextLatin1(t *testing.T) {
	// 0xE9 is é in latin-1 and invalid as standalone UTF-8.
	got, err := DecodeText([]byte{'c', 'a', 'f', 0xE9}, TextOptions{Encoding: "latin-1"})
	require.NoError(t, err)
	require.Equal(t, "café", got)
}

func TestDecodeTextASCII(t *testing.T) {
	_, err := DecodeText([]byte("café"), TextOptions{Encoding: "ascii", Errors: Strict})
	require.Error(t, err)

	got, err := DecodeText([]byte("caf\xc3\xa9"), TextOptions{Encoding: "ascii", Errors: Ignore})
	require.NoError(t, err)
	require.Equal(t, "caf", got)

	got, err = DecodeText([]byte("ok"), TextOptions{Encoding: "us-ascii"})
	require.NoError(t, err)
	require.Equal(t, "ok", got)
}

func TestDecodeTextUnknownEncoding(t *testing.T) {
	_, err := DecodeText([]byte("x"), TextOptions{Encoding: "ebcdic"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown encoding")
}

func TestEncodingAliases(t *testing.T) {
	for _, enc := range []string{"", "utf-8", "utf8", "UTF-8"} {
		got, err := DecodeText([]byte("x"), TextOptions{Encoding: enc})
		require.NoError(t, err)
		require.Equal(t, "x", got)
	}
}
