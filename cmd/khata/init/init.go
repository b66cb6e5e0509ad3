// Package initcmder provides the init command for initializing a local
// .khata directory in the current working directory.
package initcmder

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/khata/pkg/config"
)

const (
	dirName = ".khata"
)

const initLongDesc string = `Initialize a new .khata/ directory in the current working directory.

Creates a local .khata/ directory that takes precedence over the default
~/.khata/ directory for configuration, seeded data, and on-disk indexes,
and writes a config.toml with default values.

Use --preset to start from a provider preset (ollama, gemini, chroma) or
from a config.toml fetched over HTTP. Re-running with --preset overwrites
the existing config file.

Examples:
  khata init
  khata init --preset gemini
  khata init --preset https://example.com/khata/config.toml`

const initShortDesc string = "Initialize a local .khata/ directory"

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

	cmd.Flags().StringVar(&cmder.preset, "preset", "", "Provider preset name or config.toml URL")

	return cmd
}

func (c *initCommander) run() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)
	configPath := filepath.Join(dir, "config.toml")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating .khata directory: %w", err)
	}

	// A plain re-init keeps the existing config; presets overwrite it.
	if c.preset == "" {
		if _, err := os.Stat(configPath); err == nil {
			fmt.Printf("Already initialized: %s\n", dir)
			return nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking config: %w", err)
		}
	}

	cfg, err := c.resolveConfig()
	if err != nil {
		return err
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("preparing config: %w", err)
	}

	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("Initialized .khata directory: %s\n", dir)
	fmt.Printf("Wrote %s\n", configPath)
	return nil
}

// resolveConfig turns the preset flag into a Config: empty means defaults,
// an http(s) URL means a remote config.toml, anything else a named preset.
func (c *initCommander) resolveConfig() (*config.Config, error) {
	if c.preset == "" {
		return config.NewDefaultConfig(), nil
	}

	if strings.HasPrefix(c.preset, "http://") || strings.HasPrefix(c.preset, "https://") {
		return fetchRemoteConfig(c.preset)
	}

	return config.PresetConfig(c.preset)
}

// fetchRemoteConfig downloads and parses a config.toml from the given URL.
func fetchRemoteConfig(url string) (*config.Config, error) {
	client := &http.Client{Timeout: 10 * time.Second}

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
