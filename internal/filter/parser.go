package filter

import (
	"strings"

	pfinderrors "github.com/pfind/pfind/internal/errors"
)

// parser implements the expression grammar by recursive descent:
//
//	expr     := or_expr
//	or_expr  := and_expr ( 'or'  and_expr )*
//	and_expr := atom     ( 'and' atom     )*
//	atom     := '(' or_expr ')' | 'not' atom | leaf
type parser struct {
	l           *lexer
	nameService NameService
}

// Parse parses input into an ExpressionNode, resolving user/group names via
// ns (pass NoNameService if the expression contains none). It requires the
// entire input to be consumed up to trailing whitespace, returning
// SomeTokensNotParsedError otherwise.
func Parse(input string, ns NameService) (ExpressionNode, error) {
	if ns == nil {
		ns = NoNameService
	}

	p := &parser{l: newLexer(input), nameService: ns}

	expr, err := p.parseOrExpr()
	if err != nil {
		return nil, err
	}

	if !p.l.atEnd() {
		return nil, &pfinderrors.SomeTokensNotParsedError{Remainder: strings.TrimSpace(p.l.rest()), Offset: p.l.pos}
	}

	return expr, nil
}

func (p *parser) parseOrExpr() (ExpressionNode, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}

	for p.l.acceptKeyword("or") {
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}

		left = &OrNode{Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseAndExpr() (ExpressionNode, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for p.l.acceptKeyword("and") {
		right, err := p.parseAtom()
		if err != nil {
			return nil, err
		}

		left = &AndNode{Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseAtom() (ExpressionNode, error) {
	if p.l.acceptByte('(') {
		inner, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}

		if !p.l.acceptByte(')') {
			return nil, &pfinderrors.ParseFailureError{Detail: "expected ')'", Offset: p.l.pos}
		}

		return inner, nil
	}

	if p.l.acceptKeyword("not") {
		inner, err := p.parseAtom()
		if err != nil {
			return nil, err
		}

		return &NotNode{Expr: inner}, nil
	}

	f, err := p.parseLeaf()
	if err != nil {
		return nil, err
	}

	return &LeafNode{Filter: f}, nil
}
