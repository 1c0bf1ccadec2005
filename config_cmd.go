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

	"github.com/dgnsrekt/tonetts/internal/synth"
)

const defaultConfig = `# language name or code: English, Spanish, French, German, Italian
language: "English"
# tone of voice: Normal, Excited, Sad, Formal, Casual, Dramatic
tone: "Normal"
# where generated MP3 files are written (~ is expanded)
output_dir: "audio_outputs"
# verbose logging
debug: false

# Web form and API (tonetts serve)
server:
  addr: ":8080"
  # remove generated audio older than this, e.g. "1h" (0s keeps everything)
  prune_after: "0s"

# Speech synthesis
tts:
  # engine: gtts (Google Translate via gtts-cli) or mock (offline, silent)
  engine: "gtts"
  # upper bound for a single synthesis call
  timeout: "30s"
  gtts:
    # slower speech
    slow: false
    # throttle requests to avoid being blocked
    requests_per_minute: 50

# In-memory audio cache for repeated conversions, in MB (0 disables)
cache:
  max_size: 64
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the tonetts config file",
	Long:    paragraph(fmt.Sprintf("\n%s the tonetts config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created with every setting documented.", keyword("Edit"))),
	Example: paragraph("tonetts config\ntonetts config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("tonetts", configFile)
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
		if err := checkConfigFile(configFile); err != nil {
			return fmt.Errorf("%s will be rejected at startup: %w", configFile, err)
		}
		return nil
	},
}

// checkConfigFile reads path on its own, over the built-in defaults, and
// validates it the way startup does.
func checkConfigFile(path string) error {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("unable to parse: %w", err)
	}
	s, err := readSettings(v)
	if err != nil {
		return err
	}
	if _, err := synth.New(synth.Config{Engine: s.Engine, Timeout: s.Timeout}); err != nil {
		return err
	}
	return nil
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
