package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# speech host: espeak or mock (dry run)
host: "espeak"

speech:
  # how long to wait for a voice catalog that loads late
  resolve_timeout: "1.8s"
  # how often to re-read an empty catalog while waiting
  poll_interval: "50ms"
  # prosody multipliers
  rate: 0.95
  pitch: 1.0
  # volume level (0.0 to 1.0)
  volume: 1.0

espeak:
  binary: "espeak-ng"
  # voices directory, watched for installed or removed voices
  # data_dir: "/usr/share/espeak-ng-data/voices"
  default_voice: "cmn"
  # oto: decode espeak-ng output and play it here; direct: let espeak-ng play
  playback: "oto"
  timeout: "30s"

mock:
  # delay before the mock catalog appears
  catalog_delay: "300ms"
  # announce the catalog with a voices-changed notification
  notify: true

deck:
  # YAML deck file, the built-in primer when empty
  # path: "~/decks/hsk1.yml"
  # units to play, all when empty
  units: []
  # minimum time between cards
  interval: "1.5s"
  # speak the English gloss after each card
  english: false
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the cardvoice config file",
	Long:    paragraph(fmt.Sprintf("\n%s the cardvoice config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("cardvoice config\ncardvoice config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("cardvoice", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
