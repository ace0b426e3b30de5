package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHash(t *testing.T) {
	tests := []struct {
		input    string
		expected uint64
	}{
		{"0x00", 0},
		{"0xabc", 0xabc},
		{"0XABC", 0xabc},
		{"abc", 0xabc},
		{"0x0000abc", 0xabc},
		{" 0x10 ", 0x10},
	}

	for _, test := range tests {
		v, err := ParseHash(test.input)
		require.NoError(t, err, "input %q", test.input)
		require.Equal(t, test.expected, v.Uint64(), "input %q", test.input)
	}
}

func TestParseHash_FullWidth(t *testing.T) {
	s := "0x" + strings.Repeat("ff", 32)
	v, err := ParseHash(s)
	require.NoError(t, err)
	b := v.Bytes32()
	for i, c := range b {
		require.Equal(t, byte(0xff), c, "byte %d", i)
	}
}

func TestParseHash_Invalid(t *testing.T) {
	for _, input := range []string{"", "0x", "0xzz", "hello", "-0x1", "0x12 34"} {
		_, err := ParseHash(input)
		require.Error(t, err, "input %q", input)
		require.True(t, errors.Is(err, ErrInvalidHash), "input %q: %v", input, err)
	}
}

func TestParseHash_Overflow(t *testing.T) {
	_, err := ParseHash("0x1" + strings.Repeat("00", 32))
	require.ErrorIs(t, err, ErrHashOverflow)
}

func TestValidateHash(t *testing.T) {
	require.NoError(t, ValidateHash("0x68656c6c6f"))
	require.Error(t, ValidateHash("0xnope"))
}

func TestDecodeWord(t *testing.T) {
	tests := []struct {
		hash string
		word string
	}{
		{"0x68656c6c6f", "hello"},
		{"0x776f726c64", "world"},
		// Bytes above the low five are ignored.
		{"0x1234567890abcdef68656c6c6f", "hello"},
		// Short values are zero-padded on the left.
		{"0x61", "\x00\x00\x00\x00a"},
	}

	for _, test := range tests {
		word, err := DecodeWordHex(test.hash)
		require.NoError(t, err)
		require.Equal(t, test.word, word, "hash %s", test.hash)
	}
}

func TestDecodeWord_HighBytes(t *testing.T) {
	word, err := DecodeWordHex("0xe9e9e9e9e9")
	require.NoError(t, err)
	require.Equal(t, "ééééé", word)
	require.Len(t, []rune(word), WordLength)
}

func TestDecodeWord_Deterministic(t *testing.T) {
	first, err := DecodeWordHex("0x2a1b3c776f726c64")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := DecodeWordHex("0x2a1b3c776f726c64")
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestEncodeWord(t *testing.T) {
	v, err := EncodeWord("hello")
	require.NoError(t, err)
	require.Equal(t, "0x68656c6c6f", v.Hex())
	require.Equal(t, "hello", DecodeWord(v))

	v, err = EncodeWord("ééééé")
	require.NoError(t, err)
	require.Equal(t, "ééééé", DecodeWord(v))
}

func TestEncodeWord_Invalid(t *testing.T) {
	_, err := EncodeWord("four")
	require.Error(t, err)

	_, err = EncodeWord("toolong")
	require.Error(t, err)

	_, err = EncodeWord("日本語です")
	require.Error(t, err)
}

func TestFileDigest(t *testing.T) {
	content := `{"totalLeaves":0}`
	path := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	digest, err := FileDigest(path)
	require.NoError(t, err)

	expected := sha256.Sum256([]byte(content))
	require.Equal(t, hex.EncodeToString(expected[:]), digest)
}

func TestFileDigest_NonExistentFile(t *testing.T) {
	_, err := FileDigest(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to open file")
}
