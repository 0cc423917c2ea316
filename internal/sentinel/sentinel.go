// Package sentinel builds and substitutes the opaque tokens embedded in a
// compiled shell at the sites waited content, page models, and chunk
// placeholders belong.
//
// Substitution is always literal substring replacement, never regex:
// fragment HTML is untrusted enough, and may itself contain "$"-style
// sequences, that a literal strings.ReplaceAll is the only safe primitive
// here — a regex-based replace with a pattern replacer risks back-reference
// expansion on attacker-controlled content.
package sentinel

import "strings"

// WaitedContent returns the sentinel marking where a waited fragment
// occurrence's content belongs: {fragment|<name>_<from>_<partial>}.
func WaitedContent(name, from, partial string) string {
	return "{fragment|" + name + "_" + from + "_" + partial + "}"
}

// ChunkedKey returns the key identifying a chunked fragment occurrence's
// content slot: <name>_<partial>. It doubles as the puzzle-chunk attribute
// value written into the DOM at compile time.
func ChunkedKey(name, partial string) string {
	return name + "_" + partial
}

// PlaceholderKey returns the key for a chunked occurrence's placeholder
// container: <name>_<partial>_placeholder.
func PlaceholderKey(name, partial string) string {
	return ChunkedKey(name, partial) + "_placeholder"
}

// ModelScript returns the sentinel marking where a fragment's page-model
// script belongs: {fragment|<name>_pageModel}.
func ModelScript(name string) string {
	return "{fragment|" + name + "_pageModel}"
}

// Substitute performs one literal, non-regex replacement of every
// occurrence of key in text.
func Substitute(text, key, value string) string {
	return strings.ReplaceAll(text, key, value)
}

// SubstituteAll applies a batch of literal substitutions to text.
func SubstituteAll(text string, replacements map[string]string) string {
	for key, value := range replacements {
		text = strings.ReplaceAll(text, key, value)
	}
	return text
}

// CountOccurrences returns how many literal, non-overlapping times key
// appears in text — used by tests asserting sentinel-uniqueness invariants.
func CountOccurrences(text, key string) int {
	return strings.Count(text, key)
}
