package domain

import (
	"strings"
)

// editionPhrases are the trailing phrases recognized as an edition marker,
// longest first so "digital deluxe edition" wins over "deluxe edition".
var editionPhrases = []string{
	"game of the year edition",
	"digital deluxe edition",
	"collector's edition",
	"collectors edition",
	"anniversary edition",
	"definitive edition",
	"legendary edition",
	"complete edition",
	"enhanced edition",
	"standard edition",
	"ultimate edition",
	"premium edition",
	"deluxe edition",
	"special edition",
	"goty edition",
	"gold edition",
	"director's cut",
	"remastered",
	"goty",
}

// nameSeparators are trimmed between a base name and its edition marker.
const nameSeparators = " \t-–—:,"

// NormalizeName lowers, strips trademark glyphs and punctuation, and
// collapses whitespace so that the same game from different sources compares
// equal. Digits are kept: "Dota 2" and "dota 2" normalize identically but
// stay distinct from "Dota".
func NormalizeName(name string) string {
	lower := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r > 127 && !isGlyphNoise(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

func isGlyphNoise(r rune) bool {
	switch r {
	case '™', '®', '©', '–', '—', '…':
		return true
	}
	return false
}

// ExtractEdition splits a raw game name into its base name and a trailing
// edition marker. "The Sims 4 Premium Edition" yields ("The Sims 4",
// "Premium Edition"); names without a marker come back unchanged with an
// empty edition.
func ExtractEdition(rawName string) (base string, edition string) {
	name := strings.TrimSpace(rawName)
	lower := strings.ToLower(name)

	for _, phrase := range editionPhrases {
		if !strings.HasSuffix(lower, phrase) {
			continue
		}

		cut := len(name) - len(phrase)
		candidate := strings.TrimRight(name[:cut], nameSeparators)
		if candidate == "" {
			// The whole name is the phrase; it is not an edition of anything.
			continue
		}

		return candidate, strings.TrimSpace(name[cut:])
	}

	return name, ""
}
