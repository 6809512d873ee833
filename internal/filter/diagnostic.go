package filter

import (
	"errors"
	"strings"

	pfinderrors "github.com/pfind/pfind/internal/errors"
)

// FormatDiagnostic renders a parse failure as a caret-pointing, two-line
// diagnostic over the original input:
//
//	name > foo
//	     ^ parse error: name only accepts = or !=
//
// Errors that don't carry a position (or whose position falls outside the
// input) fall back to the plain error message.
func FormatDiagnostic(input string, err error) string {
	offset, ok := parseOffset(err)
	if !ok || offset < 0 || offset > len(input) {
		return err.Error()
	}

	var b strings.Builder

	b.WriteString(input)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", displayWidth(input[:offset])))
	b.WriteString("^ ")
	b.WriteString(err.Error())

	return b.String()
}

func parseOffset(err error) (int, bool) {
	var (
		parseErr     *pfinderrors.ParseFailureError
		leftoverErr  *pfinderrors.SomeTokensNotParsedError
		specifierErr *pfinderrors.UnknownSpecifierError
		tokenErr     *pfinderrors.WrongTokenTypeError
	)

	switch {
	case errors.As(err, &parseErr):
		return parseErr.Offset, true
	case errors.As(err, &leftoverErr):
		return leftoverErr.Offset, true
	case errors.As(err, &specifierErr):
		return specifierErr.Offset, true
	case errors.As(err, &tokenErr):
		return tokenErr.Offset, true
	default:
		return 0, false
	}
}

// displayWidth counts runes, so the caret lines up even when the input
// contains multi-byte characters. Tabs are the one control character worth
// special-casing; anything narrower than a terminal cell is out of scope
// for a best-effort diagnostic.
func displayWidth(s string) int {
	width := 0

	for _, r := range s {
		if r == '\t' {
			width += 8 - width%8
			continue
		}

		width++
	}

	return width
}
