package filter

import "strings"

// SizeUnit is a decimal (1000-based) byte-count unit.
type SizeUnit int

const (
	Byte SizeUnit = iota
	Kilobyte
	Megabyte
	Gigabyte
	Terabyte
)

// sizeUnitAliases maps every accepted spelling to its unit, longest alias
// first so a greedy scan picks the right one. See matchLongestAlias.
var sizeUnitAliases = []aliasEntry[SizeUnit]{
	{"Byte", Byte},
	{"Kilobyte", Kilobyte},
	{"Megabyte", Megabyte},
	{"Gigabyte", Gigabyte},
	{"Terabyte", Terabyte},
	{"Kb", Kilobyte},
	{"Mb", Megabyte},
	{"Gb", Gigabyte},
	{"Tb", Terabyte},
	{"K", Kilobyte},
	{"M", Megabyte},
	{"G", Gigabyte},
	{"T", Terabyte},
	{"B", Byte},
}

// Bytes scales value by the unit's decimal multiplier.
func (u SizeUnit) Bytes(value uint64) uint64 {
	switch u {
	case Byte:
		return value
	case Kilobyte:
		return value * 1_000
	case Megabyte:
		return value * 1_000_000
	case Gigabyte:
		return value * 1_000_000_000
	case Terabyte:
		return value * 1_000_000_000_000
	default:
		return value
	}
}

func init() {
	sortAliasesByLengthDesc(sizeUnitAliases)
}

// matchesBoundary reports whether the alias match at s[:n] is followed by a
// non-alphanumeric rune or the end of input, so that an alias never
// matches a strict prefix of a longer word.
func matchesBoundary(s string, n int) bool {
	if n >= len(s) {
		return true
	}

	r := rune(s[n])

	return !isAlphaNumeric(r)
}

func isAlphaNumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

type aliasEntry[V any] struct {
	Alias string
	Value V
}

func sortAliasesByLengthDesc[V any](entries []aliasEntry[V]) {
	// insertion sort: alias lists here are small (≤~15 entries), so
	// simplicity wins over importing sort for a one-shot descending pass.
	for i := 1; i < len(entries); i++ {
		j := i
		for j > 0 && len(entries[j-1].Alias) < len(entries[j].Alias) {
			entries[j-1], entries[j] = entries[j], entries[j-1]
			j--
		}
	}
}

// matchLongestAlias scans entries for the longest alias (case-insensitive)
// that is a prefix of s and whose match is followed by a non-alphanumeric
// rune or end of input. Returns the matched value, the number of bytes
// consumed, and whether a match was found.
func matchLongestAlias[V any](s string, entries []aliasEntry[V]) (V, int, bool) {
	var zero V

	for _, e := range entries {
		if len(e.Alias) > len(s) {
			continue
		}

		if !strings.EqualFold(s[:len(e.Alias)], e.Alias) {
			continue
		}

		if !matchesBoundary(s, len(e.Alias)) {
			continue
		}

		return e.Value, len(e.Alias), true
	}

	return zero, 0, false
}
