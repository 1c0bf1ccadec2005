package tone

import (
	"fmt"
	"strings"
)

// Tone identifies a text transformation. The set is closed: the only valid
// values are the constants below.
type Tone int

const (
	// Normal leaves text unchanged.
	Normal Tone = iota
	// Excited appends an exclamation and shouts some longer words.
	Excited
	// Sad wraps text in a melancholic opener and closer.
	Sad
	// Formal swaps casual words for formal ones and frames the result.
	Formal
	// Casual adds a relaxed opener and sometimes a filler word.
	Casual
	// Dramatic shouts some longer words between a theatrical opener and closer.
	Dramatic

	numTones
)

// All returns every tone in selection order.
func All() []Tone {
	tones := make([]Tone, 0, numTones)
	for t := Normal; t < numTones; t++ {
		tones = append(tones, t)
	}
	return tones
}

// Names returns the display names of every tone in selection order.
func Names() []string {
	names := make([]string, 0, numTones)
	for _, t := range All() {
		names = append(names, t.String())
	}
	return names
}

// Valid reports whether t is one of the declared tones.
func (t Tone) Valid() bool {
	return t >= Normal && t < numTones
}

// String returns the display name of the tone.
func (t Tone) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tone(%d)", int(t))
	}
	return registry[t].name
}

// Description returns a one-line summary of what the tone does.
func (t Tone) Description() string {
	if !t.Valid() {
		return ""
	}
	return registry[t].description
}

// MarshalText implements encoding.TextMarshaler.
func (t Tone) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTone, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tone) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Parse resolves a tone by name, ignoring case and surrounding whitespace.
// Unknown names return an *InvalidToneError.
func Parse(name string) (Tone, error) {
	trimmed := strings.TrimSpace(name)
	for _, t := range All() {
		if strings.EqualFold(trimmed, t.String()) {
			return t, nil
		}
	}
	return Normal, &InvalidToneError{
		Name:       name,
		Suggestion: suggest(trimmed),
	}
}
