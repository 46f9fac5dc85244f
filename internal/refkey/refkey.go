// Package refkey canonicalises human-written scripture references into
// stable cache keys.
//
// The same passage typed with an English or Spanish book name normalises
// to the same key, which is what lets two users working in different
// input languages share cached artifacts for the same target language.
package refkey

import (
	"regexp"
	"strings"
)

// DefaultLanguage is the product's original language. Legacy cache keys
// (written before keys were language-scoped) carry no language suffix and
// are only consulted for this language.
const DefaultLanguage = "es"

// referenceRe splits a reference into a book token (optionally prefixed
// by a single digit, as in "1 John") and a chapter/verse remainder.
var referenceRe = regexp.MustCompile(`^([1-3]?\s*[^\d]+?)\s*(\d[\d\s:,\-]*)$`)

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]`)

// langCodes maps full language words to 2-letter codes. Unknown words
// fall back to their first two letters.
var langCodes = map[string]string{
	"english":    "en",
	"ingles":     "en",
	"inglés":     "en",
	"spanish":    "es",
	"espanol":    "es",
	"español":    "es",
	"castellano": "es",
	"portuguese": "pt",
	"portugues":  "pt",
	"portugués":  "pt",
	"french":     "fr",
	"frances":    "fr",
	"francés":    "fr",
}

// Normalize returns the canonical cache key for a reference and language:
// <book>_<chapter_verse_digits>_<lang>, e.g. "rom_12_1_2_es". It never
// fails; unparseable references degrade to a blunt sanitisation.
func Normalize(reference, language string) string {
	return Canonical(reference) + "_" + LangCode(language)
}

// LegacyKey returns the pre-language-scoping key for a reference. Legacy
// keys are readable for migration but never written.
func LegacyKey(reference string) string {
	return Canonical(reference)
}

// Canonical normalises a reference without a language suffix.
func Canonical(reference string) string {
	ref := strings.ToLower(strings.TrimSpace(reference))

	m := referenceRe.FindStringSubmatch(ref)
	if m == nil {
		return sanitize(ref)
	}

	book := strings.Join(strings.Fields(m[1]), " ")
	code, ok := bookCodes[book]
	if !ok {
		return sanitize(ref)
	}

	remainder := strings.NewReplacer(
		" ", "",
		"\t", "",
		":", "_",
		"-", "_",
		",", "_",
	).Replace(m[2])

	return code + "_" + remainder
}

// LangCode reduces a full language word to a 2-letter code.
func LangCode(language string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	if code, ok := langCodes[lang]; ok {
		return code
	}
	letters := nonAlnumRe.ReplaceAllString(lang, "")
	if len(letters) >= 2 {
		return letters[:2]
	}
	if letters == "" {
		return DefaultLanguage
	}
	return letters
}

// IsDefaultLanguage reports whether the language resolves to the default.
func IsDefaultLanguage(language string) bool {
	return LangCode(language) == DefaultLanguage
}

// sanitize is the blunt fallback for unparseable references: every
// non-alphanumeric becomes an underscore.
func sanitize(ref string) string {
	return nonAlnumRe.ReplaceAllString(ref, "_")
}
