// Package initcmder provides the init command for initializing a local
// .hindsight directory in the current working directory.
package initcmder

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/hindsight/cmd/hindsight/paths"
	"github.com/papercomputeco/hindsight/pkg/cipher"
	"github.com/papercomputeco/hindsight/pkg/config"
)

const (
	dirName = ".hindsight"
)

const initLongDesc string = `Initialize a new .hindsight/ directory in the current working directory.

Creates a local .hindsight/ directory that takes precedence over the default
~/.hindsight/ directory for configuration, evidence storage, the provenance
journal, the operator channel key, and the workspace.

--preset selects the vector store backend the generated config.toml points
at (sqlitevec, qdrant, chroma, inmemory), or takes an http(s) URL to fetch
a shared config.toml from instead. Without a preset an existing config.toml
is left alone.

This is useful for maintaining separate hindsight state per project or
directory.

Examples:
  hindsight init
  hindsight init --preset qdrant
  hindsight init --preset https://ops.example.com/hindsight/config.toml`

const initShortDesc string = "Initialize a local .hindsight/ directory"

type initCommander struct {
	preset string
}

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmder.run()
		},
	}

	cmd.Flags().StringVar(&cmder.preset, "preset", "", "Vector store preset or config.toml URL")

	return cmd
}

func (c *initCommander) run() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	info, statErr := os.Stat(dir)
	already := statErr == nil && info.IsDir()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating .hindsight directory: %w", err)
	}

	if err := c.writeConfig(dir); err != nil {
		return err
	}

	keyPath, err := paths.CipherKey("", dir)
	if err != nil {
		return fmt.Errorf("resolving cipher key path: %w", err)
	}
	if _, err := cipher.LoadOrCreateKey(keyPath); err != nil {
		return fmt.Errorf("creating cipher key: %w", err)
	}

	if _, err := paths.Workspace("", dir); err != nil {
		return err
	}
	if _, err := paths.Inbox("", dir); err != nil {
		return err
	}

	if already {
		fmt.Printf("Already initialized: %s\n", dir)
		return nil
	}

	fmt.Printf("Initialized .hindsight directory: %s\n", dir)
	return nil
}

// writeConfig persists config.toml inside dir. A preset always overwrites;
// without one an existing file is preserved.
func (c *initCommander) writeConfig(dir string) error {
	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return err
	}

	if c.preset == "" {
		if _, err := os.Stat(cfger.GetTarget()); err == nil {
			return nil
		}
	}

	cfg, err := c.resolveConfig()
	if err != nil {
		return err
	}

	return cfger.SaveConfig(cfg)
}

func (c *initCommander) resolveConfig() (*config.Config, error) {
	if strings.HasPrefix(c.preset, "http://") || strings.HasPrefix(c.preset, "https://") {
		return fetchRemoteConfig(c.preset)
	}

	cfg := config.NewDefaultConfig()
	if c.preset == "" {
		return cfg, nil
	}

	preset, err := config.PresetConfig(c.preset)
	if err != nil {
		return nil, err
	}
	cfg.VectorStore = preset.VectorStore

	return cfg, nil
}

func fetchRemoteConfig(url string) (*config.Config, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching remote config: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading remote config: %w", err)
	}

	return config.ParseConfigTOML(data)
}
