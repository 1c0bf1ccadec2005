package tone

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Rule rewrites text, drawing any random choices from r.
type Rule func(r Rand, text string) string

type entry struct {
	name        string
	description string
	rule        Rule
}

var registry = [numTones]entry{
	Normal:   {"Normal", "Standard text without modifications", normal},
	Excited:  {"Excited", "Add excitement and energy to the text", excited},
	Sad:      {"Sad", "Modify text to sound more melancholic", sad},
	Formal:   {"Formal", "Convert text to a more professional tone", formal},
	Casual:   {"Casual", "Make text sound more conversational and relaxed", casual},
	Dramatic: {"Dramatic", "Add dramatic flair to the text", dramatic},
}

var (
	excitedWords = []string{"Wow!", "Amazing!", "Incredible!", "Fantastic!", "Awesome!"}

	sadPrefixes = []string{"Sadly,", "With a heavy heart,", "Unfortunately,", "In sorrow,"}
	sadSuffixes = []string{"...", "♥", "😢", "with a deep sigh"}

	// regexp2 treats every Unicode letter as a word character, so \b
	// never falls between "good" and an accented letter.
	formalReplacements = []struct {
		pattern *regexp2.Regexp
		formal  string
	}{
		{regexp2.MustCompile(`\bgood\b`, regexp2.IgnoreCase), "excellent"},
		{regexp2.MustCompile(`\bbad\b`, regexp2.IgnoreCase), "unsatisfactory"},
		{regexp2.MustCompile(`\bthing\b`, regexp2.IgnoreCase), "matter"},
		{regexp2.MustCompile(`\bstuff\b`, regexp2.IgnoreCase), "materials"},
	}

	casualPrefixes = []string{"Hey,", "So,", "Like,", "Basically,", "You know,"}
	casualFillers  = []string{"um", "like", "you know", "basically"}

	dramaticPrefixes = []string{"In a world where...", "Behold!", "Lo and behold,", "Hear ye,"}
	dramaticSuffixes = []string{"...and so it begins.", "...the saga continues.", "...destiny awaits."}
)

const (
	excitedMinLen  = 4 // words longer than 3 runes
	excitedShout   = 0.3
	casualFillerP  = 0.4
	dramaticMinLen = 5 // words longer than 4 runes
	dramaticShout  = 0.5
)

func choice(r Rand, options []string) string {
	return options[r.IntN(len(options))]
}

// shout uppercases each word of at least minLen runes with probability p.
// The trial is only drawn for words that qualify.
func shout(r Rand, words []string, minLen int, p float64) []string {
	for i, w := range words {
		if utf8.RuneCountInString(w) >= minLen && r.Float64() < p {
			words[i] = strings.ToUpper(w)
		}
	}
	return words
}

func normal(_ Rand, text string) string {
	return text
}

func excited(r Rand, text string) string {
	text = text + " " + choice(r, excitedWords)
	words := shout(r, strings.Fields(text), excitedMinLen, excitedShout)
	return strings.Join(words, " ")
}

func sad(r Rand, text string) string {
	prefix := choice(r, sadPrefixes)
	suffix := choice(r, sadSuffixes)
	return prefix + " " + text + " " + suffix
}

func formal(_ Rand, text string) string {
	for _, rep := range formalReplacements {
		// Replace only fails on a match timeout, and none is set.
		if replaced, err := rep.pattern.Replace(text, rep.formal, -1, -1); err == nil {
			text = replaced
		}
	}
	return "Hereby, " + text + ". Respectfully submitted."
}

func casual(r Rand, text string) string {
	text = choice(r, casualPrefixes) + " " + text
	if r.Float64() < casualFillerP {
		words := strings.Fields(text)
		at := r.IntN(len(words) + 1)
		filler := choice(r, casualFillers)
		words = slices.Insert(words, at, filler)
		text = strings.Join(words, " ")
	}
	return text
}

func dramatic(r Rand, text string) string {
	words := shout(r, strings.Fields(text), dramaticMinLen, dramaticShout)
	prefix := choice(r, dramaticPrefixes)
	suffix := choice(r, dramaticSuffixes)
	return prefix + " " + strings.Join(words, " ") + " " + suffix
}

// Rule returns the rule registered for t, or nil for an invalid tone.
func (t Tone) Rule() Rule {
	if !t.Valid() {
		return nil
	}
	return registry[t].rule
}
