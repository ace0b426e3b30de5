// Package crypto provides parsing of tree hash strings into fixed-width
// 256-bit values and the word encoding used by dictionary leaves.
//
// Leaf hashes in the word tree carry the five ASCII letters of a word in their
// lowest five bytes. Hash strings come from JavaScript tooling and are not
// padded, so "0xabc" and "0x0abc" parse to the same value.
package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/holiman/uint256"
)

// WordLength is the number of characters packed into a leaf hash.
const WordLength = 5

var (
	// ErrInvalidHash is returned for strings that are not base-16 numbers.
	ErrInvalidHash = errors.New("invalid hex hash")

	// ErrHashOverflow is returned for values that do not fit in 256 bits.
	ErrHashOverflow = errors.New("hash exceeds 256 bits")
)

// ParseHash parses a base-16 hash string with an optional 0x prefix.
func ParseHash(s string) (*uint256.Int, error) {
	digits := strings.TrimSpace(s)
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits = digits[2:]
	}
	if digits == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHash, s)
	}

	n, ok := new(big.Int).SetString(digits, 16)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHash, s)
	}

	v, overflow := uint256.FromBig(n)
	if overflow {
		return nil, fmt.Errorf("%w: %q", ErrHashOverflow, s)
	}
	return v, nil
}

// ValidateHash checks that s parses as a 256-bit hash.
func ValidateHash(s string) error {
	_, err := ParseHash(s)
	return err
}

// DecodeWord extracts the word stored in the low bytes of a hash value.
// Each byte becomes one character with that code point, most significant first.
func DecodeWord(v *uint256.Int) string {
	b := v.Bytes32()
	chars := make([]rune, WordLength)
	for i, c := range b[len(b)-WordLength:] {
		chars[i] = rune(c)
	}
	return string(chars)
}

// DecodeWordHex parses a hash string and decodes its word.
func DecodeWordHex(s string) (string, error) {
	v, err := ParseHash(s)
	if err != nil {
		return "", err
	}
	return DecodeWord(v), nil
}

// EncodeWord packs a word into the low bytes of a value, the inverse of DecodeWord.
// Every character must have a code point below 256.
func EncodeWord(word string) (*uint256.Int, error) {
	chars := []rune(word)
	if len(chars) != WordLength {
		return nil, fmt.Errorf("word %q must have %d characters, got %d", word, WordLength, len(chars))
	}

	var b [WordLength]byte
	for i, c := range chars {
		if c > 0xFF {
			return nil, fmt.Errorf("word %q: character %q does not fit in one byte", word, c)
		}
		b[i] = byte(c)
	}
	return new(uint256.Int).SetBytes(b[:]), nil
}

// FileDigest computes the SHA256 of a file and returns it as a hex string.
func FileDigest(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
