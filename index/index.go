// Package index builds the reverse word index over a tree's leaf level.
package index

import (
	"errors"
	"fmt"

	"github.com/zkwordle/treeconv/crypto"
	"github.com/zkwordle/treeconv/types"
)

// ErrLeafOutOfRange is returned when the leaf count exceeds the leaves present.
var ErrLeafOutOfRange = errors.New("leaf index out of range")

// Stats describes a finished index build.
type Stats struct {
	Leaves     int // Leaves scanned
	Collisions int // Leaves whose word replaced an earlier leaf's entry
}

// Build decodes the word of each of the first totalLeaves leaves and maps it
// to the leaf's index. When two leaves decode to the same word the later leaf
// wins; existing word artifacts depend on that.
func Build(leaves []string, totalLeaves int) (*types.WordIndex, error) {
	idx, _, err := BuildWithStats(leaves, totalLeaves)
	return idx, err
}

// BuildWithStats is Build that also reports how many collisions occurred.
func BuildWithStats(leaves []string, totalLeaves int) (*types.WordIndex, Stats, error) {
	if totalLeaves < 0 || totalLeaves > len(leaves) {
		return nil, Stats{}, fmt.Errorf("%w: totalLeaves is %d but the leaf level has %d entries",
			ErrLeafOutOfRange, totalLeaves, len(leaves))
	}

	wordIndex := types.NewWordIndex(totalLeaves)
	stats := Stats{Leaves: totalLeaves}
	for i := 0; i < totalLeaves; i++ {
		word, err := crypto.DecodeWordHex(leaves[i])
		if err != nil {
			return nil, Stats{}, fmt.Errorf("failed to decode leaf %d: %w", i, err)
		}
		if wordIndex.Set(word, i) {
			stats.Collisions++
		}
	}

	return wordIndex, stats, nil
}
