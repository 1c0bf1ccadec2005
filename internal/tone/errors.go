package tone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// ErrInvalidTone is returned for a tone outside the fixed set.
var ErrInvalidTone = errors.New("invalid tone")

// InvalidToneError describes an unknown tone name. It unwraps to
// ErrInvalidTone.
type InvalidToneError struct {
	Name       string
	Suggestion string // closest known tone, may be empty
}

// Error implements the error interface.
func (e *InvalidToneError) Error() string {
	msg := fmt.Sprintf("%s %q (available: %s)", ErrInvalidTone, e.Name, strings.Join(Names(), ", "))
	if e.Suggestion != "" {
		msg += fmt.Sprintf("; did you mean %q?", e.Suggestion)
	}
	return msg
}

// Unwrap returns ErrInvalidTone.
func (e *InvalidToneError) Unwrap() error {
	return ErrInvalidTone
}

// Available lists the tones a caller may choose from instead.
func (e *InvalidToneError) Available() []string {
	return Names()
}

// suggest returns the best fuzzy match for name among the tone names.
func suggest(name string) string {
	if name == "" {
		return ""
	}
	names := Names()
	lower := make([]string, len(names))
	for i, n := range names {
		lower[i] = strings.ToLower(n)
	}
	matches := fuzzy.Find(strings.ToLower(name), lower)
	if len(matches) == 0 {
		return ""
	}
	return names[matches[0].Index]
}
