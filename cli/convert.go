package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zkwordle/treeconv"
)

func newConvertCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Write the levels and metadata artifacts from a tree dump",
		Long: `Read the sparse storage dump of the word tree and write two artifacts:

1. Levels: every level of the tree as a dense array, leaves first. Positions
   missing from the dump hold the level's zero value.
2. Metadata: root, leaf count, height, zero values and the word index that maps
   each word decoded from a leaf hash to the leaf's position.

Relative paths resolve against --repo-root. The levels artifact is written
before leaves are decoded, so a bad leaf hash leaves it in place.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return a.bindFlags(cmd, map[string]string{
				"input":         "input",
				"levels-output": "levels-output",
				"meta-output":   "meta-output",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, a)
		},
		Example: `  # Default layout under the current directory
  treeconv convert

  # Explicit paths
  treeconv convert --input dump.json --levels-output levels.json --meta-output meta.json`,
	}

	cmd.Flags().String("input", treeconv.DefaultInputPath, "sparse tree dump")
	cmd.Flags().String("levels-output", treeconv.DefaultLevelsOutputPath, "levels artifact")
	cmd.Flags().String("meta-output", treeconv.DefaultMetaOutputPath, "metadata artifact")

	return cmd
}

// convertConfig resolves the conversion paths from flags, env and config file.
func (a *app) convertConfig() treeconv.Config {
	root := a.v.GetString("repo-root")
	return treeconv.Config{
		InputPath:        resolvePath(root, a.v.GetString("input"), treeconv.DefaultInputPath),
		LevelsOutputPath: resolvePath(root, a.v.GetString("levels-output"), treeconv.DefaultLevelsOutputPath),
		MetaOutputPath:   resolvePath(root, a.v.GetString("meta-output"), treeconv.DefaultMetaOutputPath),
	}
}

func runConvert(cmd *cobra.Command, a *app) error {
	cfg := a.convertConfig()
	out := cmd.OutOrStdout()

	result, err := treeconv.NewConverter(cfg, a.logger).Run()
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	fmt.Fprintf(out, "Root: %s\n", result.Metadata.Root)
	fmt.Fprintf(out, "Levels generated: %d\n", len(result.Levels))
	for i, count := range result.LevelCounts() {
		fmt.Fprintf(out, "  Level %d: %d entries\n", i, count)
	}
	fmt.Fprintf(out, "Saved %s\n", cfg.LevelsOutputPath)
	fmt.Fprintf(out, "Saved %s (%d words indexed)\n", cfg.MetaOutputPath, result.Metadata.WordIndex.Len())
	fmt.Fprintf(out, "Sample words: %q\n", result.SampleWords(treeconv.SampleSize))
	if result.Collisions > 0 {
		fmt.Fprintf(out, "Word collisions: %d (later leaves kept)\n", result.Collisions)
	}

	return nil
}
