// Package names provides the join key used to match rider names across the
// rider list, league rosters, withdrawals and history entries.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// tildeN maps ñ/Ñ to a plain n before decomposition so the result does not
// depend on how the source encoded the letter.
var tildeN = strings.NewReplacer("ñ", "n", "Ñ", "n")

// Normalize returns the comparison form of a rider name: lowercased, with
// diacritics stripped and internal whitespace collapsed. It is never meant
// for display. Casers are stateful, so one is built per call.
func Normalize(s string) string {
	s = tildeN.Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(cases.Lower(language.Und).String(out)), " ")
}

// Equal reports whether a and b normalize to the same key.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
