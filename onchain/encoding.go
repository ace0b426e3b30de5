// Package onchain encodes tree values for the word game contract.
//
// The contract stores the dictionary root as a [u8; 32] constant and takes
// proof path elements as BytesN<32> with u32 path indices, so every hash is
// rendered as a left-padded, big-endian 32-byte value.
package onchain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/zkwordle/treeconv/crypto"
	"github.com/zkwordle/treeconv/types"
)

// GuessArgs are the verify_guess arguments for one word.
type GuessArgs struct {
	GuessWord    string        `json:"guess_word"`    // Hex of the word's ASCII bytes
	PathElements []common.Hash `json:"path_elements"` // Siblings as 32-byte values
	PathIndices  []uint32      `json:"path_indices"`  // 0 = left child, 1 = right child
	Root         common.Hash   `json:"root"`          // Root the path leads to
}

// Bytes32 converts a hash string into a 32-byte big-endian value.
func Bytes32(hash string) (common.Hash, error) {
	v, err := crypto.ParseHash(hash)
	if err != nil {
		return common.Hash{}, err
	}
	return common.Hash(v.Bytes32()), nil
}

// RustByteArray renders a hash as a [u8; 32] literal, eight bytes per line.
func RustByteArray(hash string) (string, error) {
	h, err := Bytes32(hash)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("[\n")
	for row := 0; row < len(h); row += 8 {
		sb.WriteString("    ")
		for i := row; i < row+8; i++ {
			fmt.Fprintf(&sb, "0x%02x,", h[i])
			if i < row+7 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("]")
	return sb.String(), nil
}

// NewGuessArgs converts a leaf proof into contract call arguments.
func NewGuessArgs(proof *types.LeafProof) (*GuessArgs, error) {
	if proof == nil {
		return nil, fmt.Errorf("proof cannot be nil")
	}
	if len(proof.PathElements) != len(proof.PathIndices) {
		return nil, fmt.Errorf("proof has %d path elements but %d path indices",
			len(proof.PathElements), len(proof.PathIndices))
	}

	root, err := Bytes32(proof.Root)
	if err != nil {
		return nil, fmt.Errorf("invalid root: %w", err)
	}

	args := &GuessArgs{
		GuessWord:    hexutil.Encode(wordBytes(proof.Word)),
		PathElements: make([]common.Hash, len(proof.PathElements)),
		PathIndices:  make([]uint32, len(proof.PathIndices)),
		Root:         root,
	}
	for i, element := range proof.PathElements {
		h, err := Bytes32(element)
		if err != nil {
			return nil, fmt.Errorf("invalid path element %d: %w", i, err)
		}
		args.PathElements[i] = h
	}
	for i, bit := range proof.PathIndices {
		if bit != 0 && bit != 1 {
			return nil, fmt.Errorf("invalid path index %d: %d", i, bit)
		}
		args.PathIndices[i] = uint32(bit)
	}

	return args, nil
}

// wordBytes returns one byte per character of a decoded word.
func wordBytes(word string) []byte {
	chars := []rune(word)
	b := make([]byte, len(chars))
	for i, c := range chars {
		b[i] = byte(c)
	}
	return b
}
