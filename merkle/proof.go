package merkle

import (
	"errors"
	"fmt"

	"github.com/zkwordle/treeconv/types"
)

// ErrWordNotFound is returned when a word has no leaf in the index.
var ErrWordNotFound = errors.New("word not in index")

// BuildProof creates the sibling path for a word using the dense levels and
// the metadata's word index. Siblings past the end of a level take the
// level's zero value. The path is not checked against the root.
func BuildProof(levels types.DenseLevels, meta *types.TreeMetadata, word string) (*types.LeafProof, error) {
	if meta == nil {
		return nil, fmt.Errorf("metadata is required")
	}

	leafIndex, ok := meta.WordIndex.Get(word)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrWordNotFound, word)
	}

	return BuildProofAt(levels, meta.Zeros, leafIndex, word)
}

// BuildProofAt creates the sibling path for the leaf at leafIndex.
func BuildProofAt(levels types.DenseLevels, zeros []string, leafIndex int, word string) (*types.LeafProof, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("tree has no levels")
	}
	if leafIndex < 0 || leafIndex >= len(levels[0]) {
		return nil, fmt.Errorf("leaf index %d out of range (level 0 has %d entries)", leafIndex, len(levels[0]))
	}

	height := levels.Height()
	proof := &types.LeafProof{
		Word:         word,
		LeafIndex:    leafIndex,
		Leaf:         levels[0][leafIndex],
		Root:         levels.Root(),
		PathElements: make([]string, 0, height),
		PathIndices:  make([]int, 0, height),
	}

	currentIndex := leafIndex
	for lvl := 0; lvl < height; lvl++ {
		pairIndex := currentIndex ^ 1 // XOR with 1 to get sibling index

		var sibling string
		if pairIndex < len(levels[lvl]) {
			sibling = levels[lvl][pairIndex]
		} else {
			zero, err := zeroAt(zeros, lvl)
			if err != nil {
				return nil, fmt.Errorf("cannot resolve sibling at level %d: %w", lvl, err)
			}
			sibling = zero
		}

		proof.PathElements = append(proof.PathElements, sibling)
		proof.PathIndices = append(proof.PathIndices, currentIndex&1)

		// Move to parent level
		currentIndex /= 2
	}

	return proof, nil
}
