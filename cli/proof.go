package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zkwordle/treeconv"
	"github.com/zkwordle/treeconv/merkle"
	"github.com/zkwordle/treeconv/onchain"
)

// LookupError reports a word that is not in the dictionary (not a usage error)
type LookupError struct {
	Word string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%q is not in the word index", e.Word)
}

func newProofCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proof WORD",
		Short: "Print the sibling path for a word",
		Long: `Look a word up in the metadata artifact and print the sibling path from its
leaf to the root, built from the levels artifact.

The default output is the JSON proof the frontend uses. With --onchain the
path is printed as verify_guess arguments: 32-byte path elements, u32 path
indices, and the root as a [u8; 32] literal for the contract constant.

The path is not checked against the root.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return a.bindFlags(cmd, map[string]string{
				"levels": "levels-output",
				"meta":   "meta-output",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runProof(cmd, a, args[0])
			var lookupErr *LookupError
			if errors.As(err, &lookupErr) {
				fmt.Fprintf(os.Stderr, "❌ %s\n", err.Error())
			}
			return err
		},
		Example: `  # Proof for a word using the default artifact paths
  treeconv proof crane

  # Contract arguments for the same word
  treeconv proof crane --onchain`,
	}

	cmd.Flags().String("levels", treeconv.DefaultLevelsOutputPath, "levels artifact")
	cmd.Flags().String("meta", treeconv.DefaultMetaOutputPath, "metadata artifact")
	cmd.Flags().Bool("onchain", false, "print contract call arguments instead of the JSON proof")

	return cmd
}

func runProof(cmd *cobra.Command, a *app, word string) error {
	root := a.v.GetString("repo-root")
	levelsPath := resolvePath(root, a.v.GetString("levels-output"), treeconv.DefaultLevelsOutputPath)
	metaPath := resolvePath(root, a.v.GetString("meta-output"), treeconv.DefaultMetaOutputPath)
	onchainMode, _ := cmd.Flags().GetBool("onchain")

	levels, meta, err := treeconv.LoadArtifacts(levelsPath, metaPath)
	if err != nil {
		return err
	}
	a.logger.Debug("Loaded artifacts",
		zap.String("levels", levelsPath),
		zap.String("meta", metaPath),
		zap.Int("words", meta.WordIndex.Len()),
	)

	proof, err := merkle.BuildProof(levels, meta, word)
	if errors.Is(err, merkle.ErrWordNotFound) {
		return &LookupError{Word: word}
	}
	if err != nil {
		return fmt.Errorf("failed to build proof: %w", err)
	}

	out := cmd.OutOrStdout()
	if !onchainMode {
		return writeJSON(out, proof)
	}

	args, err := onchain.NewGuessArgs(proof)
	if err != nil {
		return fmt.Errorf("failed to encode proof: %w", err)
	}
	rootArray, err := onchain.RustByteArray(proof.Root)
	if err != nil {
		return fmt.Errorf("failed to encode root: %w", err)
	}

	if err := writeJSON(out, args); err != nil {
		return err
	}
	fmt.Fprintf(out, "const MERKLE_ROOT: [u8; 32] = %s;\n", rootArray)
	return nil
}
