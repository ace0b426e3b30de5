package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix prefixes environment overrides, e.g. TREECONV_REPO_ROOT.
const EnvPrefix = "TREECONV"

// app carries state shared by every command of one root command.
type app struct {
	cfgFile string
	v       *viper.Viper
	logger  *zap.Logger
}

// NewRootCmd builds the treeconv command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "treeconv",
		Short: "treeconv - Poseidon word tree converter",
		Long: `treeconv turns the storage dump of the Poseidon word dictionary tree into
the dense artifacts served by the frontend, and builds membership proofs for
single words from those artifacts.

Available Commands:
  convert  Write the levels and metadata artifacts from a tree dump
  proof    Print the sibling path for a word

Use "treeconv [command] --help" for more information about a command.`,
		Example: `  # Convert using the default paths under the current directory
  treeconv convert

  # Convert inside another checkout
  treeconv convert --repo-root ../wordle-zk

  # Print the proof for a word
  treeconv proof crane

  # Print the verify_guess arguments for a word
  treeconv proof crane --onchain`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initConfig(); err != nil {
				return err
			}
			logger, err := newLogger(a.v.GetBool("verbose"))
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.treeconv.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("repo-root", ".", "repository root that relative paths resolve against")
	_ = a.v.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = a.v.BindPFlag("repo-root", rootCmd.PersistentFlags().Lookup("repo-root"))

	rootCmd.AddCommand(newConvertCmd(a))
	rootCmd.AddCommand(newProofCmd(a))

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) initConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(".treeconv")
	}

	a.v.SetEnvPrefix(EnvPrefix)
	a.v.SetEnvKeyReplacer(envKeyReplacer)
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		// An explicit config file must exist; the default one is optional.
		if a.cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	} else if a.v.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", a.v.ConfigFileUsed())
	}
	return nil
}
