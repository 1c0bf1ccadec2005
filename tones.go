package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dgnsrekt/tonetts/internal/language"
	"github.com/dgnsrekt/tonetts/internal/tone"
)

var tonesCmd = &cobra.Command{
	Use:     "tones",
	Short:   "List the available tones and languages",
	Args:    cobra.NoArgs,
	Example: paragraph("tonetts tones"),
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, err := renderMarkdown(tonesMarkdown())
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err //nolint:wrapcheck
	},
}

func tonesMarkdown() string {
	var b strings.Builder
	b.WriteString("# Tones\n\n| Tone | Description |\n| --- | --- |\n")
	for _, t := range tone.All() {
		fmt.Fprintf(&b, "| **%s** | %s |\n", t, t.Description())
	}
	b.WriteString("\n# Languages\n\n| Language | Code | Native name |\n| --- | --- | --- |\n")
	for _, l := range language.All() {
		fmt.Fprintf(&b, "| %s | `%s` | %s |\n", l.Name, l.Code, l.SelfName())
	}
	return b.String()
}

// renderMarkdown renders md for the terminal, or plain when stdout is not one.
func renderMarkdown(md string) (string, error) {
	style := styles.AutoStyle
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		style = styles.NoTTYStyle
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithColorProfile(lipgloss.ColorProfile()),
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(outputWidth()),
	)
	if err != nil {
		return "", fmt.Errorf("unable to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("unable to render markdown: %w", err)
	}
	return out, nil
}

// outputWidth is the terminal width capped at 120, or 80 when stdout is
// not a terminal.
func outputWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 80
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return min(w, 120)
}
