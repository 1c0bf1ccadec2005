// Package main provides the entry point for the tonetts CLI application.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/tonetts/internal/audio"
	"github.com/dgnsrekt/tonetts/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	mouse      bool

	rootCmd = &cobra.Command{
		Use:   "tonetts [TEXT]",
		Short: "Speak text aloud in the tone of your choice",
		Long: paragraph(
			fmt.Sprintf("\nConvert text to speech %s. Pick a language and one of six tones; the text is rewritten in that tone, synthesized, and saved as MP3.", keyword("with feeling")),
		),
		Example: paragraph("tonetts\ntonetts \"What a day\" --tone dramatic\ntonetts say --lang es --tone excited \"hola amigos\""),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}

	if viper.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	mouse = viper.GetBool("mouse")

	// let a broken config still be edited
	switch cmd.Name() {
	case "config", "man", "completion":
		return nil
	}

	s, err := loadSettings()
	if err != nil {
		return err
	}
	current = s
	return nil
}

func execute(_ *cobra.Command, args []string) error {
	var text string
	if len(args) == 1 {
		text = args[0]
	}
	return runTUI(text)
}

func runTUI(text string) error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	cfg.Text = text
	cfg.Language = current.Language
	cfg.Tone = current.Tone
	cfg.EnableMouse = mouse

	conv, _, closer, err := newConverter(current, log.Default())
	if err != nil {
		return err
	}
	defer closer() //nolint:errcheck

	var player ui.Player
	if p, err := audio.NewPlayer(audio.DefaultPlayerConfig()); err != nil {
		log.Warn("playback disabled", "err", err)
	} else {
		defer p.Close() //nolint:errcheck
		player = p
	}

	if _, err := ui.NewProgram(cfg, conv, player).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	flags.StringP("lang", "l", "English", "language name or code ("+strings.Join(languageNames(), ", ")+")")
	flags.StringP("tone", "t", "Normal", "tone of voice (Normal, Excited, Sad, Formal, Casual, Dramatic)")
	flags.StringP("output-dir", "o", defaultOutputDir, "directory for generated audio")
	flags.String("engine", "gtts", "speech engine (gtts or mock)")
	flags.Bool("debug", false, "enable debug logging")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse support (TUI-mode only)")
	_ = rootCmd.Flags().MarkHidden("mouse")

	// Config bindings
	_ = viper.BindPFlag("language", flags.Lookup("lang"))
	_ = viper.BindPFlag("tone", flags.Lookup("tone"))
	_ = viper.BindPFlag("output_dir", flags.Lookup("output-dir"))
	_ = viper.BindPFlag("tts.engine", flags.Lookup("engine"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))

	setDefaults(viper.GetViper())

	rootCmd.AddCommand(sayCmd, serveCmd, tonesCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "tonetts")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "tonetts")}, dirs...)
	}

	if c := os.Getenv("TONETTS_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("tonetts")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("tonetts")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	configFile = filepath.Join(dirs[0], "tonetts.yml")
}
