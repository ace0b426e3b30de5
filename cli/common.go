package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var envKeyReplacer = strings.NewReplacer("-", "_")

// newLogger returns a development logger in verbose mode, a production one otherwise.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// writeJSON prints v as indented JSON followed by a newline
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// resolvePath joins a relative path onto the repository root.
func resolvePath(repoRoot, path, fallback string) string {
	if path == "" {
		path = fallback
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(repoRoot, path)
}

// bindFlags binds the running command's flags to config keys. Binding happens
// at run time because commands share keys such as "levels-output".
func (a *app) bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		if err := a.v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", flag, err)
		}
	}
	return nil
}
