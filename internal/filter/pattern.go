package filter

import (
	"regexp"

	"github.com/gobwas/glob"
)

// MatchPattern is a tagged value: either a compiled glob or a compiled
// regular expression, case-sensitive or not. Equality compares the source
// strings (and the case-sensitivity/kind tags), never the compiled matcher.
type MatchPattern struct {
	source        string
	caseSensitive bool
	isRegex       bool

	g glob.Glob
	r *regexp.Regexp
}

// NewGlobPattern compiles source as a glob. caseSensitive controls whether
// an `i` prefix was present in the literal.
func NewGlobPattern(source string, caseSensitive bool) (MatchPattern, error) {
	compileSource := source
	if !caseSensitive {
		compileSource = foldGlobForCaseInsensitivity(source)
	}

	g, err := glob.Compile(compileSource)
	if err != nil {
		return MatchPattern{}, err
	}

	return MatchPattern{
		source:        source,
		caseSensitive: caseSensitive,
		isRegex:       false,
		g:             g,
	}, nil
}

// NewRegexPattern compiles source as a regular expression.
func NewRegexPattern(source string, caseSensitive bool) (MatchPattern, error) {
	compileSource := source
	if !caseSensitive {
		compileSource = "(?i)" + source
	}

	r, err := regexp.Compile(compileSource)
	if err != nil {
		return MatchPattern{}, err
	}

	return MatchPattern{
		source:        source,
		caseSensitive: caseSensitive,
		isRegex:       true,
		r:             r,
	}, nil
}

// IsMatch is the only observable operation on a MatchPattern.
func (p MatchPattern) IsMatch(text string) bool {
	if p.isRegex {
		return p.r.MatchString(text)
	}

	if !p.caseSensitive {
		text = foldCase(text)
	}

	return p.g.Match(text)
}

// Equal compares source strings, case-sensitivity and pattern kind — never
// the compiled matcher.
func (p MatchPattern) Equal(other MatchPattern) bool {
	return p.source == other.source && p.caseSensitive == other.caseSensitive && p.isRegex == other.isRegex
}

// String renders the pattern the way the parser would accept it back.
func (p MatchPattern) String() string {
	prefix := ""
	if p.isRegex {
		prefix = "r"
	}

	if !p.caseSensitive {
		prefix += "i"
	}

	return prefix + "'" + p.source + "'"
}

// foldGlobForCaseInsensitivity lower-cases a glob source. gobwas/glob has no
// built-in case-insensitive mode, so case-insensitive glob matching folds
// both the compiled pattern and the matched text to lower case (see IsMatch).
func foldGlobForCaseInsensitivity(source string) string {
	return foldCase(source)
}

func foldCase(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			r = r - 'A' + 'a'
		}

		out = append(out, r)
	}

	return string(out)
}
