// Package tone rewrites text in one of a fixed set of speaking tones before
// it is handed to a speech synthesizer.
//
// Each Tone has exactly one rule. Rules are plain string rewrites; the ones
// that decorate or emphasize text draw their choices from a Rand so callers
// can make the output reproducible.
package tone
