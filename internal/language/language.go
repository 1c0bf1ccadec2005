// Package language holds the fixed set of languages offered for synthesis.
package language

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ErrUnsupported is returned for a language outside the fixed set.
var ErrUnsupported = errors.New("unsupported language")

// Language is a selectable synthesis language.
type Language struct {
	Name string // English display name, e.g. "Spanish"
	Code string // code passed to the synthesizer, e.g. "es"

	tag language.Tag
}

// Tag returns the parsed BCP 47 tag for the language.
func (l Language) Tag() language.Tag {
	return l.tag
}

// SelfName returns the name of the language in that language, e.g. "español".
func (l Language) SelfName() string {
	return display.Self.Name(l.tag)
}

func (l Language) String() string {
	return l.Name
}

var languages = []Language{
	{Name: "English", Code: "en"},
	{Name: "Spanish", Code: "es"},
	{Name: "French", Code: "fr"},
	{Name: "German", Code: "de"},
	{Name: "Italian", Code: "it"},
}

func init() {
	for i := range languages {
		languages[i].tag = language.MustParse(languages[i].Code)
	}
}

// Default is the language used when none is chosen.
func Default() Language {
	return languages[0]
}

// All returns the supported languages in selection order.
func All() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// Lookup finds a language by display name or code, ignoring case. Regional
// codes such as "en-GB" resolve to their base language.
func Lookup(nameOrCode string) (Language, error) {
	s := strings.TrimSpace(nameOrCode)
	for _, l := range languages {
		if strings.EqualFold(s, l.Name) || strings.EqualFold(s, l.Code) {
			return l, nil
		}
	}
	if tag, err := language.Parse(s); err == nil {
		base, _ := tag.Base()
		for _, l := range languages {
			if lb, _ := l.tag.Base(); lb == base {
				return l, nil
			}
		}
	}
	return Language{}, fmt.Errorf("%w: %q", ErrUnsupported, nameOrCode)
}

// Codes returns the synthesizer codes of every supported language.
func Codes() []string {
	codes := make([]string, len(languages))
	for i, l := range languages {
		codes[i] = l.Code
	}
	return codes
}
