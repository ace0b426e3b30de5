// Package types provides the data structures shared by the tree converter.
//
// This package defines the sparse input format produced by the tree builder
// scripts, the dense artifacts served to the frontend, and the proof shape the
// word game needs to prove dictionary membership.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SparseTree is the storage dump of a fixed-height Poseidon Merkle tree.
// Only populated nodes are present in Storage; every other position holds
// the zero value of its level.
type SparseTree struct {
	TotalLeaves int               `json:"totalLeaves"` // Number of leaf entries
	Levels      int               `json:"levels"`      // Tree height, the root sits at this level
	Zeros       []string          `json:"zeros"`       // Default hash per level, index 0 = leaves
	Storage     map[string]string `json:"storage"`     // "<level>-<index>" -> hash
}

// DenseLevels holds every level of the tree from leaves (index 0) to the root.
type DenseLevels [][]string

// Height returns the index of the root level.
func (d DenseLevels) Height() int {
	return len(d) - 1
}

// Root returns the single hash held by the top level, or "" when it is empty.
func (d DenseLevels) Root() string {
	if len(d) == 0 || len(d[len(d)-1]) == 0 {
		return ""
	}
	return d[len(d)-1][0]
}

// TreeMetadata is the metadata artifact loaded by the frontend next to the levels.
type TreeMetadata struct {
	Root        string     `json:"root"`
	TotalLeaves int        `json:"totalLeaves"`
	Height      int        `json:"height"`
	Zeros       []string   `json:"zeros"`
	WordIndex   *WordIndex `json:"wordIndex"`
}

// WordIndex maps a decoded word to its leaf position.
// Keys keep the order in which they were first inserted; setting an existing
// word replaces its index without moving it.
type WordIndex struct {
	order   []string
	indices map[string]int
}

// NewWordIndex creates an empty index sized for n words.
func NewWordIndex(n int) *WordIndex {
	return &WordIndex{
		order:   make([]string, 0, n),
		indices: make(map[string]int, n),
	}
}

// Set records word -> index. It reports whether the word was already present.
func (w *WordIndex) Set(word string, index int) bool {
	if w.indices == nil {
		w.indices = make(map[string]int)
	}
	_, exists := w.indices[word]
	if !exists {
		w.order = append(w.order, word)
	}
	w.indices[word] = index
	return exists
}

// Get returns the leaf index stored for word.
func (w *WordIndex) Get(word string) (int, bool) {
	if w == nil {
		return 0, false
	}
	index, ok := w.indices[word]
	return index, ok
}

// Len returns the number of distinct words.
func (w *WordIndex) Len() int {
	if w == nil {
		return 0
	}
	return len(w.order)
}

// Words returns the words in insertion order.
func (w *WordIndex) Words() []string {
	if w == nil {
		return nil
	}
	words := make([]string, len(w.order))
	copy(words, w.order)
	return words
}

// MarshalJSON encodes the index as a JSON object in insertion order.
func (w *WordIndex) MarshalJSON() ([]byte, error) {
	if w == nil {
		return []byte("{}"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, word := range w.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(word)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", w.indices[word])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the document.
func (w *WordIndex) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("word index must be a JSON object")
	}

	*w = WordIndex{indices: make(map[string]int)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		word, ok := tok.(string)
		if !ok {
			return fmt.Errorf("word index key must be a string")
		}
		var index int
		if err := dec.Decode(&index); err != nil {
			return fmt.Errorf("invalid index for word %q: %w", word, err)
		}
		w.Set(word, index)
	}

	_, err = dec.Token()
	return err
}

// LeafProof is the sibling path from a word's leaf up to the root.
type LeafProof struct {
	Word         string   `json:"word"`         // Word being proven
	LeafIndex    int      `json:"leafIndex"`    // Position of the leaf in level 0
	Leaf         string   `json:"leaf"`         // Leaf hash
	Root         string   `json:"root"`         // Root the path leads to
	PathElements []string `json:"pathElements"` // Sibling hash per level, leaves first
	PathIndices  []int    `json:"pathIndices"`  // 0 = node is a left child, 1 = right child
}

// Error is a conversion failure tied to a file on disk.
type Error struct {
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new file error
func NewError(path, message string, err error) *Error {
	return &Error{Path: path, Message: message, Err: err}
}
