package filter

import (
	"strconv"
	"strings"
	"time"

	pfinderrors "github.com/pfind/pfind/internal/errors"
)

// attrAliases maps every accepted attribute spelling to the Filter Kind it
// produces, longest-alias-first.
var attrAliases = []aliasEntry[Kind]{
	{"size", KindSize},
	{"depth", KindDepth},
	{"type", KindType},
	{"mtime", KindModificationTime},
	{"atime", KindAccessTime},
	{"name", KindName},
	{"extension", KindExtension},
	{"ext", KindExtension},
	{"contains", KindContains},
	{"permissions", KindPermissions},
	{"perms", KindPermissions},
	{"perm", KindPermissions},
	{"user", KindUser},
	{"group", KindGroup},
}

func init() {
	sortAliasesByLengthDesc(attrAliases)
}

// parseAttrName matches the longest attribute alias at the lexer's current
// position and advances past it.
func (p *parser) parseAttrName() (Kind, bool) {
	p.l.skipSpace()

	kind, n, ok := matchLongestAlias(p.l.rest(), attrAliases)
	if !ok {
		return 0, false
	}

	p.l.advance(n)

	return kind, true
}

// parseLeaf parses `attr_name comparison value` into a Filter, per the
// per-attribute value grammar.
func (p *parser) parseLeaf() (Filter, error) {
	kind, ok := p.parseAttrName()
	if !ok {
		return Filter{}, &pfinderrors.ParseFailureError{Detail: "expected attribute name", Offset: p.l.pos}
	}

	p.l.skipSpace()
	cmpPos := p.l.pos

	cmp, ok := p.l.acceptComparison()
	if !ok {
		return Filter{}, &pfinderrors.ParseFailureError{Detail: "expected comparison operator", Offset: p.l.pos}
	}

	switch kind {
	case KindName, KindExtension, KindContains:
		if cmp != Eq && cmp != Ne {
			return Filter{}, &pfinderrors.ParseFailureError{
				Detail: kind.String() + " only accepts = or !=",
				Offset: cmpPos,
			}
		}
	}

	switch kind {
	case KindSize:
		v, err := p.parseSizeValue()
		if err != nil {
			return Filter{}, err
		}

		return NewSizeFilter(cmp, v), nil
	case KindDepth:
		v, err := p.parsePositiveInt()
		if err != nil {
			return Filter{}, err
		}

		return NewDepthFilter(cmp, v), nil
	case KindType:
		v, err := p.parseFileType()
		if err != nil {
			return Filter{}, err
		}

		return NewTypeFilter(cmp, v), nil
	case KindModificationTime:
		v, err := p.parseDuration()
		if err != nil {
			return Filter{}, err
		}

		return NewModificationTimeFilter(cmp, v), nil
	case KindAccessTime:
		v, err := p.parseDuration()
		if err != nil {
			return Filter{}, err
		}

		return NewAccessTimeFilter(cmp, v), nil
	case KindName:
		v, err := p.parsePattern()
		if err != nil {
			return Filter{}, err
		}

		return NewNameFilter(cmp, v), nil
	case KindExtension:
		v, err := p.parsePattern()
		if err != nil {
			return Filter{}, err
		}

		return NewExtensionFilter(cmp, v), nil
	case KindContains:
		v, err := p.parsePattern()
		if err != nil {
			return Filter{}, err
		}

		return NewContainsFilter(cmp, v), nil
	case KindUser:
		v, err := p.parseUserOrGroup(p.nameService.ResolveUser)
		if err != nil {
			return Filter{}, err
		}

		return NewUserFilter(cmp, v), nil
	case KindGroup:
		v, err := p.parseUserOrGroup(p.nameService.ResolveGroup)
		if err != nil {
			return Filter{}, err
		}

		return NewGroupFilter(cmp, v), nil
	case KindPermissions:
		v, err := p.parseOctal()
		if err != nil {
			return Filter{}, err
		}

		return NewPermissionsFilter(cmp, v), nil
	default:
		return Filter{}, &pfinderrors.ParseFailureError{Detail: "unhandled attribute kind", Offset: p.l.pos}
	}
}

func (p *parser) parsePositiveInt() (uint64, error) {
	p.l.skipSpace()

	digits, ok := p.l.acceptDecimal()
	if !ok {
		return 0, &pfinderrors.ParseFailureError{Detail: "expected a positive integer", Offset: p.l.pos}
	}

	v, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, &pfinderrors.ParseFailureError{Detail: "invalid integer: " + digits, Offset: p.l.pos}
	}

	return v, nil
}

func (p *parser) parseOctal() (uint64, error) {
	p.l.skipSpace()

	digits, ok := p.l.acceptDecimal()
	if !ok {
		return 0, &pfinderrors.ParseFailureError{Detail: "expected an octal integer", Offset: p.l.pos}
	}

	v, err := strconv.ParseUint(digits, 8, 32)
	if err != nil {
		return 0, &pfinderrors.ParseFailureError{Detail: "invalid octal mode: " + digits, Offset: p.l.pos}
	}

	return v, nil
}

// parseSizeValue parses `<int> [ws] [size-unit-alias]` and returns the
// unit-scaled byte count. A bare integer is a byte count; an alphanumeric
// run glued onto the digits that isn't a known unit is an error rather
// than a silent byte count.
func (p *parser) parseSizeValue() (uint64, error) {
	n, err := p.parsePositiveInt()
	if err != nil {
		return 0, err
	}

	adjacentAlpha := p.l.pos < len(p.l.input) && isAlphaNumeric(rune(p.l.input[p.l.pos]))

	p.l.skipSpace()

	unit, length, ok := matchLongestAlias(p.l.rest(), sizeUnitAliases)
	if !ok {
		if adjacentAlpha {
			return 0, &pfinderrors.UnknownSpecifierError{Specifier: p.l.rest(), Offset: p.l.pos}
		}

		return n, nil
	}

	p.l.advance(length)

	return unit.Bytes(n), nil
}

func (p *parser) parseFileType() (FileType, error) {
	p.l.skipSpace()

	t, length, ok := matchLongestAlias(p.l.rest(), fileTypeAliases)
	if !ok {
		return 0, &pfinderrors.UnknownSpecifierError{Specifier: p.l.rest(), Offset: p.l.pos}
	}

	p.l.advance(length)

	return t, nil
}

// parseDuration parses `now [± int time-unit]` into a signed duration
// relative to Now().
func (p *parser) parseDuration() (time.Duration, error) {
	if !p.l.acceptKeyword("now") {
		return 0, &pfinderrors.ParseFailureError{Detail: "expected 'now'", Offset: p.l.pos}
	}

	p.l.skipSpace()

	sign := int64(1)

	switch {
	case p.l.acceptByte('+'):
		sign = 1
	case p.l.acceptByte('-'):
		sign = -1
	default:
		return 0, nil
	}

	n, err := p.parsePositiveInt()
	if err != nil {
		return 0, err
	}

	p.l.skipSpace()

	unit, length, ok := matchLongestAlias(p.l.rest(), timeUnitAliases)
	if !ok {
		return 0, &pfinderrors.UnknownSpecifierError{Specifier: p.l.rest(), Offset: p.l.pos}
	}

	p.l.advance(length)

	return unit.Duration(sign * int64(n)), nil
}

// parseUserOrGroup accepts a positive integer id, or a bare alphanumeric name
// resolved via resolve.
func (p *parser) parseUserOrGroup(resolve func(string) (uint32, bool)) (uint64, error) {
	p.l.skipSpace()

	if digits, ok := p.l.acceptDecimal(); ok {
		v, err := strconv.ParseUint(digits, 10, 32)
		if err != nil {
			return 0, &pfinderrors.ParseFailureError{Detail: "invalid id: " + digits, Offset: p.l.pos}
		}

		return v, nil
	}

	nameStart := p.l.pos

	name, ok := p.acceptBareToken()
	if !ok {
		return 0, &pfinderrors.ParseFailureError{Detail: "expected an id or name", Offset: p.l.pos}
	}

	id, ok := resolve(name)
	if !ok {
		return 0, &pfinderrors.WrongTokenTypeError{Detail: "unresolvable name: " + name, Offset: nameStart}
	}

	return uint64(id), nil
}

// acceptBareToken consumes a run of non-whitespace, non-paren bytes.
func (p *parser) acceptBareToken() (string, bool) {
	p.l.skipSpace()

	start := p.l.pos
	for p.l.pos < len(p.l.input) {
		c := p.l.input[p.l.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '(' || c == ')' {
			break
		}

		p.l.pos++
	}

	if p.l.pos == start {
		return "", false
	}

	return p.l.input[start:p.l.pos], true
}

// parsePattern parses a Name/Extension/Contains value: a regex (`r'...'`,
// `ri'...'`), a quoted glob (`'...'`, `i'...'`), or a bare token terminated
// by whitespace or a parenthesis.
func (p *parser) parsePattern() (MatchPattern, error) {
	p.l.skipSpace()

	patStart := p.l.pos

	if strings.HasPrefix(p.l.rest(), "r") && len(p.l.rest()) > 1 && isQuoteStart(p.l.rest()[1:]) {
		p.l.advance(1)

		caseSensitive, src, err := p.parseQuoteEscapedString()
		if err != nil {
			return MatchPattern{}, err
		}

		pat, err := NewRegexPattern(src, caseSensitive)
		if err != nil {
			return MatchPattern{}, &pfinderrors.ParseFailureError{Detail: "invalid regex: " + err.Error(), Offset: patStart}
		}

		return pat, nil
	}

	if isQuoteStart(p.l.rest()) {
		caseSensitive, src, err := p.parseQuoteEscapedString()
		if err != nil {
			return MatchPattern{}, err
		}

		pat, err := NewGlobPattern(src, caseSensitive)
		if err != nil {
			return MatchPattern{}, &pfinderrors.ParseFailureError{Detail: "invalid glob: " + err.Error(), Offset: patStart}
		}

		return pat, nil
	}

	tok, ok := p.acceptBareToken()
	if !ok {
		return MatchPattern{}, &pfinderrors.ParseFailureError{Detail: "expected a pattern", Offset: p.l.pos}
	}

	pat, err := NewGlobPattern(tok, true)
	if err != nil {
		return MatchPattern{}, &pfinderrors.ParseFailureError{Detail: "invalid glob: " + err.Error(), Offset: patStart}
	}

	return pat, nil
}

// isQuoteStart reports whether s starts with an optional `i` case-folding
// flag followed immediately by a quote character.
func isQuoteStart(s string) bool {
	if s == "" {
		return false
	}

	if s[0] == '\'' || s[0] == '"' {
		return true
	}

	return s[0] == 'i' && len(s) > 1 && (s[1] == '\'' || s[1] == '"')
}

// parseQuoteEscapedString consumes an optional `i` flag and a single- or
// double-quoted string, honoring backslash-escaped quotes of the matching
// kind, and returns (caseSensitive, content).
func (p *parser) parseQuoteEscapedString() (bool, string, error) {
	caseInsensitive := p.l.acceptByte('i')

	var quote byte

	switch {
	case p.l.pos < len(p.l.input) && p.l.input[p.l.pos] == '\'':
		quote = '\''
	case p.l.pos < len(p.l.input) && p.l.input[p.l.pos] == '"':
		quote = '"'
	default:
		return false, "", &pfinderrors.ParseFailureError{Detail: "expected a quoted string", Offset: p.l.pos}
	}

	p.l.advance(1)

	start := p.l.pos

	for p.l.pos < len(p.l.input) {
		if p.l.input[p.l.pos] == quote && (p.l.pos == start || p.l.input[p.l.pos-1] != '\\') {
			content := p.l.input[start:p.l.pos]
			p.l.advance(1)

			return !caseInsensitive, unescapeQuote(content, quote), nil
		}

		p.l.pos++
	}

	return false, "", &pfinderrors.ParseFailureError{Detail: "unterminated quoted string", Offset: p.l.pos}
}

// unescapeQuote removes the backslash from any `\<quote>` escape sequence
// inside content; every other character, including other backslashes, is
// left untouched.
func unescapeQuote(content string, quote byte) string {
	var b strings.Builder

	for i := 0; i < len(content); i++ {
		if content[i] == '\\' && i+1 < len(content) && content[i+1] == quote {
			b.WriteByte(quote)
			i++

			continue
		}

		b.WriteByte(content[i])
	}

	return b.String()
}
