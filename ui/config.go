package ui

// Config contains TUI-specific configuration.
type Config struct {
	// Initial selections; names or codes are accepted.
	Language string
	Tone     string

	// Text to pre-fill the editor with.
	Text string

	EnableMouse bool

	// For debugging the UI
	AltScreen bool `env:"TONETTS_ALT_SCREEN" envDefault:"true"`
	ShowHelp  bool `env:"TONETTS_SHOW_HELP"  envDefault:"true"`
}
