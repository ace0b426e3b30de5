// Package merkle reconstructs dense levels of a fixed-height binary Merkle
// tree from its sparse storage dump and builds leaf paths over the result.
//
// The storage dump only holds populated nodes, keyed "<level>-<index>".
// Every other position at a level holds that level's zero value.
//
// Example usage:
//
//	levels, err := merkle.Densify(tree)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Root: %s\n", levels.Root())
package merkle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zkwordle/treeconv/types"
)

var (
	// ErrMalformedKey is returned for storage keys that are not "<level>-<index>".
	ErrMalformedKey = errors.New("malformed storage key")

	// ErrMissingZero is returned when a gap must be filled at a level with no zero value.
	ErrMissingZero = errors.New("no zero value for level")

	// ErrInvalidHeight is returned for trees with a negative height.
	ErrInvalidHeight = errors.New("invalid tree height")
)

// NodeKey identifies a node by level (0 = leaves) and position within the level.
type NodeKey struct {
	Level int
	Index int
}

// String returns the storage form of the key.
func (k NodeKey) String() string {
	return fmt.Sprintf("%d-%d", k.Level, k.Index)
}

// ParseNodeKey parses a "<level>-<index>" storage key.
func ParseNodeKey(key string) (NodeKey, error) {
	levelPart, indexPart, ok := strings.Cut(key, "-")
	if !ok {
		return NodeKey{}, fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}

	level, err := strconv.Atoi(levelPart)
	if err != nil || level < 0 {
		return NodeKey{}, fmt.Errorf("%w: %q: bad level", ErrMalformedKey, key)
	}
	index, err := strconv.Atoi(indexPart)
	if err != nil || index < 0 {
		return NodeKey{}, fmt.Errorf("%w: %q: bad index", ErrMalformedKey, key)
	}

	return NodeKey{Level: level, Index: index}, nil
}

// Densify rebuilds every level of the tree, leaves first.
// A level with no stored nodes comes back empty. Otherwise it runs from index 0
// to the highest stored index, with gaps holding the level's zero value.
// Nodes above the tree height are ignored.
func Densify(tree *types.SparseTree) (types.DenseLevels, error) {
	if tree == nil {
		return nil, fmt.Errorf("cannot densify a nil tree")
	}
	height := tree.Levels
	if height < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHeight, height)
	}

	// Group stored nodes by level
	byLevel := make([]map[int]string, height+1)
	for key, hash := range tree.Storage {
		nk, err := ParseNodeKey(key)
		if err != nil {
			return nil, err
		}
		if nk.Level > height {
			continue
		}
		if byLevel[nk.Level] == nil {
			byLevel[nk.Level] = make(map[int]string)
		}
		byLevel[nk.Level][nk.Index] = hash
	}

	levels := make(types.DenseLevels, height+1)
	for lvl, entries := range byLevel {
		level, err := denseLevel(lvl, entries, tree.Zeros)
		if err != nil {
			return nil, err
		}
		levels[lvl] = level
	}

	return levels, nil
}

// denseLevel expands one level's stored nodes into a gap-free slice.
func denseLevel(lvl int, entries map[int]string, zeros []string) ([]string, error) {
	if len(entries) == 0 {
		return []string{}, nil
	}

	maxIndex := 0
	for i := range entries {
		if i > maxIndex {
			maxIndex = i
		}
	}

	level := make([]string, maxIndex+1)
	for i := range level {
		if hash, ok := entries[i]; ok {
			level[i] = hash
			continue
		}
		zero, err := zeroAt(zeros, lvl)
		if err != nil {
			return nil, fmt.Errorf("cannot fill index %d: %w", i, err)
		}
		level[i] = zero
	}

	return level, nil
}

// zeroAt returns the zero value for a level.
func zeroAt(zeros []string, lvl int) (string, error) {
	if lvl < 0 || lvl >= len(zeros) {
		return "", fmt.Errorf("%w %d: have %d zero values", ErrMissingZero, lvl, len(zeros))
	}
	return zeros[lvl], nil
}

// LevelCounts returns the number of entries at every level.
func LevelCounts(levels types.DenseLevels) []int {
	counts := make([]int, len(levels))
	for i, level := range levels {
		counts[i] = len(level)
	}
	return counts
}
