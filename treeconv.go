// Package treeconv converts the storage dump of a Poseidon Merkle tree into
// the two JSON artifacts the word game frontend loads: the dense levels of
// the tree, and a metadata document with the root and a word index.
//
// # Usage
//
//	conv := treeconv.NewConverter(treeconv.DefaultConfig("."), logger)
//
//	// Read the dump, write both artifacts
//	result, err := conv.Run()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Root: %s\n", result.Metadata.Root)
//
// Convert does the same work in memory when the tree is already loaded.
package treeconv

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/zkwordle/treeconv/crypto"
	"github.com/zkwordle/treeconv/index"
	"github.com/zkwordle/treeconv/merkle"
	"github.com/zkwordle/treeconv/types"
)

// Default artifact locations, relative to the repository root.
const (
	DefaultInputPath        = "js-scripts/merkle-tree-poseidon.json"
	DefaultLevelsOutputPath = "frontend/public/merkle-tree-poseidon-levels.json"
	DefaultMetaOutputPath   = "frontend/public/merkle-tree-poseidon.json"
)

// SampleSize is the number of indexed words reported after a run.
const SampleSize = 5

// ErrInvalidRoot is returned when the root level does not hold exactly one hash.
var ErrInvalidRoot = errors.New("root level must hold exactly one hash")

// Config holds the file locations for one conversion.
type Config struct {
	InputPath        string
	LevelsOutputPath string
	MetaOutputPath   string
}

// DefaultConfig returns the default artifact locations under repoRoot.
func DefaultConfig(repoRoot string) Config {
	return Config{
		InputPath:        filepath.Join(repoRoot, DefaultInputPath),
		LevelsOutputPath: filepath.Join(repoRoot, DefaultLevelsOutputPath),
		MetaOutputPath:   filepath.Join(repoRoot, DefaultMetaOutputPath),
	}
}

// Validate checks that every path is set.
func (c Config) Validate() error {
	switch {
	case c.InputPath == "":
		return fmt.Errorf("input path is required")
	case c.LevelsOutputPath == "":
		return fmt.Errorf("levels output path is required")
	case c.MetaOutputPath == "":
		return fmt.Errorf("metadata output path is required")
	}
	return nil
}

// Converter runs the conversion pipeline for one configuration.
type Converter struct {
	config Config
	logger *zap.Logger
}

// Result is the outcome of a conversion.
type Result struct {
	Levels      types.DenseLevels
	Metadata    *types.TreeMetadata
	Collisions  int    // Leaves whose word replaced an earlier entry
	InputDigest string // SHA256 of the input file, empty for in-memory runs
}

// LevelCounts returns the number of entries at each level.
func (r *Result) LevelCounts() []int {
	return merkle.LevelCounts(r.Levels)
}

// SampleWords returns up to n words in index order.
func (r *Result) SampleWords(n int) []string {
	words := r.Metadata.WordIndex.Words()
	if len(words) > n {
		words = words[:n]
	}
	return words
}

// NewConverter creates a converter. A nil logger discards log output.
func NewConverter(cfg Config, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		config: cfg,
		logger: logger,
	}
}

// Run reads the input dump and writes the levels and metadata artifacts.
// The levels file is written before the word index is built, so a bad leaf
// hash fails the run with the levels artifact already on disk.
func (c *Converter) Run() (*Result, error) {
	if err := c.config.Validate(); err != nil {
		return nil, err
	}

	tree, err := LoadSparseTree(c.config.InputPath)
	if err != nil {
		return nil, err
	}
	digest, err := crypto.FileDigest(c.config.InputPath)
	if err != nil {
		return nil, types.NewError(c.config.InputPath, "failed to hash input", err)
	}
	c.logger.Debug("Loaded sparse tree",
		zap.String("path", c.config.InputPath),
		zap.String("sha256", digest),
		zap.Int("totalLeaves", tree.TotalLeaves),
		zap.Int("height", tree.Levels),
		zap.Int("storedNodes", len(tree.Storage)),
	)

	levels, err := BuildLevels(tree)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Levels generated",
		zap.String("root", levels.Root()),
		zap.Int("levels", len(levels)),
		zap.Ints("entriesPerLevel", merkle.LevelCounts(levels)),
	)
	for lvl, level := range levels {
		if len(level) == 0 {
			c.logger.Warn("Level has no stored nodes", zap.Int("level", lvl))
		}
	}

	if err := WriteJSON(c.config.LevelsOutputPath, levels); err != nil {
		return nil, err
	}
	c.logger.Info("Saved levels", zap.String("path", c.config.LevelsOutputPath))

	meta, stats, err := BuildMetadata(tree, levels)
	if err != nil {
		return nil, err
	}
	if stats.Collisions > 0 {
		c.logger.Warn("Word collisions, later leaves replaced earlier entries",
			zap.Int("collisions", stats.Collisions))
	}

	if err := WriteJSON(c.config.MetaOutputPath, meta); err != nil {
		return nil, err
	}

	result := &Result{
		Levels:      levels,
		Metadata:    meta,
		Collisions:  stats.Collisions,
		InputDigest: digest,
	}
	c.logger.Info("Saved metadata",
		zap.String("path", c.config.MetaOutputPath),
		zap.Int("wordsIndexed", meta.WordIndex.Len()),
		zap.Strings("sampleWords", result.SampleWords(SampleSize)),
	)

	return result, nil
}

// Convert builds the levels and metadata for an already loaded tree.
func Convert(tree *types.SparseTree) (*Result, error) {
	levels, err := BuildLevels(tree)
	if err != nil {
		return nil, err
	}
	meta, stats, err := BuildMetadata(tree, levels)
	if err != nil {
		return nil, err
	}
	return &Result{
		Levels:     levels,
		Metadata:   meta,
		Collisions: stats.Collisions,
	}, nil
}

// BuildLevels densifies the tree and checks that it has a single root.
func BuildLevels(tree *types.SparseTree) (types.DenseLevels, error) {
	levels, err := merkle.Densify(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to densify tree: %w", err)
	}

	top := levels[levels.Height()]
	if len(top) != 1 {
		return nil, fmt.Errorf("%w: level %d has %d entries", ErrInvalidRoot, levels.Height(), len(top))
	}
	return levels, nil
}

// BuildMetadata indexes the leaf level and assembles the metadata document.
func BuildMetadata(tree *types.SparseTree, levels types.DenseLevels) (*types.TreeMetadata, index.Stats, error) {
	wordIndex, stats, err := index.BuildWithStats(levels[0], tree.TotalLeaves)
	if err != nil {
		return nil, index.Stats{}, fmt.Errorf("failed to build word index: %w", err)
	}

	zeros := tree.Zeros
	if zeros == nil {
		zeros = []string{}
	}
	return &types.TreeMetadata{
		Root:        levels.Root(),
		TotalLeaves: tree.TotalLeaves,
		Height:      tree.Levels,
		Zeros:       zeros,
		WordIndex:   wordIndex,
	}, stats, nil
}

// LoadSparseTree reads and parses a tree dump.
func LoadSparseTree(path string) (*types.SparseTree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.NewError(path, "failed to read input", err)
	}

	var tree types.SparseTree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, types.NewError(path, "failed to parse input", err)
	}
	return &tree, nil
}

// LoadArtifacts reads the levels and metadata files written by Run.
func LoadArtifacts(levelsPath, metaPath string) (types.DenseLevels, *types.TreeMetadata, error) {
	data, err := os.ReadFile(levelsPath)
	if err != nil {
		return nil, nil, types.NewError(levelsPath, "failed to read levels", err)
	}
	var levels types.DenseLevels
	if err := json.Unmarshal(data, &levels); err != nil {
		return nil, nil, types.NewError(levelsPath, "failed to parse levels", err)
	}

	data, err = os.ReadFile(metaPath)
	if err != nil {
		return nil, nil, types.NewError(metaPath, "failed to read metadata", err)
	}
	var meta types.TreeMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, nil, types.NewError(metaPath, "failed to parse metadata", err)
	}

	return levels, &meta, nil
}

// WriteJSON writes v as compact JSON, creating parent directories as needed.
func WriteJSON(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return types.NewError(path, "failed to encode", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return types.NewError(path, "failed to create directory", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return types.NewError(path, "failed to write", err)
	}
	return nil
}
