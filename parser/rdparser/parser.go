// Copyright © 2026 The golisp authors

package rdparser

import (
	"strconv"

	"github.com/golisp/golisp/lisp"
	"github.com/golisp/golisp/parser/token"
)

// Parser consumes a token sequence front-to-back, producing an AST of
// tagged lisp.Node values allocated from a lisp.Pool. The cursor is kept
// as ordinary Parser state rather than threaded through every call by
// pointer, which is the idiomatic Go equivalent of the source's
// mutable-reference cursor.
type Parser struct {
	pool   *lisp.Pool
	tokens []*token.Token
	pos    int
	line   int // line of the last consumed token, for error reporting
}

// New constructs a Parser over tokens, allocating AST nodes from pool.
func New(pool *lisp.Pool, tokens []*token.Token) *Parser {
	return &Parser{pool: pool, tokens: tokens}
}

func (p *Parser) peek() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() *token.Token {
	tok := p.peek()
	if tok != nil {
		p.pos++
		p.line = tok.Line
	}
	return tok
}

// ParseProgram parses every top-level expression in the token stream and
// returns the right-nested pair-list root described in spec.md §4.3,
// with elements in source order.
func (p *Parser) ParseProgram() (*lisp.Node, error) {
	var exprs []*lisp.Node
	for p.peek() != nil {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return p.pool.NewList(exprs, 0)
}

func (p *Parser) parseExpression() (*lisp.Node, error) {
	tok := p.peek()
	if tok == nil {
		return nil, lisp.Errorf(lisp.StatusSyntaxError, p.line, "unexpected end of input")
	}
	switch tok.Type {
	case token.OPEN_PAREN:
		p.advance()
		return p.parseListBody(tok.Line)
	case token.STRING_LIT:
		p.advance()
		return p.parseStringLit(tok)
	case token.MISC:
		p.advance()
		return p.parseAtomFromMisc(tok)
	default:
		return nil, lisp.Errorf(lisp.StatusInvalidLex, tok.Line, "unexpected token %s", tok.Type)
	}
}

// parseListBody parses the sequence of expressions following an already
// consumed '(' up to and including its matching ')'. openLine is the
// line the '(' appeared on, used as a Pair's line when no better line is
// available; the "parentheses do not match" error carries the line of
// the last consumed token instead.
func (p *Parser) parseListBody(openLine int) (*lisp.Node, error) {
	if tok := p.peek(); tok != nil && tok.Type == token.CLOSE_PAREN {
		p.advance()
		return nil, nil
	}
	if p.peek() == nil {
		return nil, lisp.Errorf(lisp.StatusSyntaxError, p.line, "parentheses do not match")
	}
	head, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	tail, err := p.parseListBody(openLine)
	if err != nil {
		return nil, err
	}
	line := openLine
	if head != nil {
		line = head.Line
	}
	return p.pool.NewPair(head, tail, line)
}

// parseStringLit strips the surrounding quotes from a STRING_LIT lexeme.
func (p *Parser) parseStringLit(tok *token.Token) (*lisp.Node, error) {
	text := tok.Text
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return nil, lisp.Errorf(lisp.StatusSyntaxError, tok.Line, "malformed string literal %q", text)
	}
	return p.pool.NewString(text[1:len(text)-1], tok.Line)
}

// parseAtomFromMisc dispatches a MISC lexeme to Boolean, Character,
// Number, or Symbol construction based on its first byte(s), per
// spec.md's atom-from-misc grammar.
func (p *Parser) parseAtomFromMisc(tok *token.Token) (*lisp.Node, error) {
	text := tok.Text
	if text == "" {
		return nil, lisp.Errorf(lisp.StatusSyntaxError, tok.Line, "empty token")
	}
	switch {
	case text[0] == '#':
		return p.parseBoolean(tok)
	case text[0] == '\'':
		return p.parseCharacter(tok)
	case isNumberStart(text):
		return p.parseNumber(tok)
	default:
		return p.pool.NewSymbol(text, tok.Line)
	}
}

func isNumberStart(text string) bool {
	if text == "" {
		return false
	}
	c := text[0]
	if c >= '0' && c <= '9' {
		return true
	}
	if c == '.' || c == '+' || c == '-' {
		return len(text) > 1 && (text[1] == '.' || (text[1] >= '0' && text[1] <= '9'))
	}
	return false
}

func (p *Parser) parseBoolean(tok *token.Token) (*lisp.Node, error) {
	switch tok.Text {
	case "#t", "#T":
		return p.pool.NewBoolean(true, tok.Line)
	case "#f", "#F":
		return p.pool.NewBoolean(false, tok.Line)
	default:
		return nil, lisp.Errorf(lisp.StatusSyntaxError, tok.Line, "malformed boolean literal %q", tok.Text)
	}
}

// parseCharacter accepts exactly three bytes: a quote, the character
// byte, and a closing quote.
func (p *Parser) parseCharacter(tok *token.Token) (*lisp.Node, error) {
	if len(tok.Text) != 3 || tok.Text[2] != '\'' {
		return nil, lisp.Errorf(lisp.StatusSyntaxError, tok.Line, "malformed character literal %q", tok.Text)
	}
	return p.pool.NewChar(tok.Text[1], tok.Line)
}

// parseNumber accepts an optional leading sign, a decimal integer part,
// and an optional fractional part; any trailing byte is an error.
func (p *Parser) parseNumber(tok *token.Token) (*lisp.Node, error) {
	text := tok.Text
	i := 0
	if i < len(text) && (text[i] == '+' || text[i] == '-') {
		i++
	}
	start := i
	for i < len(text) && isDigit(text[i]) {
		i++
	}
	if i < len(text) && text[i] == '.' {
		i++
		for i < len(text) && isDigit(text[i]) {
			i++
		}
	}
	if i == start {
		return nil, lisp.Errorf(lisp.StatusSyntaxError, tok.Line, "malformed number literal %q", text)
	}
	if i != len(text) {
		return nil, lisp.Errorf(lisp.StatusSyntaxError, tok.Line, "malformed number literal %q", text)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, lisp.Errorf(lisp.StatusSyntaxError, tok.Line, "malformed number literal %q", text)
	}
	return p.pool.NewNumber(v, tok.Line)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
