// Copyright © 2026 The golisp authors

package lexer

import (
	"bufio"
	"bytes"
	"io"

	"github.com/golisp/golisp/lisp"
	"github.com/golisp/golisp/parser/token"
)

// ByteSource is the character input source the lexer consumes: a
// byte-oriented stream offering single-byte read, unread, and peek. Any
// file, string, or network-backed implementation is an equally valid
// collaborator; the lexer only ever calls ReadByte and UnreadByte.
type ByteSource interface {
	// ReadByte returns the next byte, or ok=false at EOF.
	ReadByte() (b byte, ok bool)
	// UnreadByte pushes a single byte back so the next ReadByte returns
	// it again. Only one byte of pushback is guaranteed.
	UnreadByte(b byte) bool
	// PeekByte returns the next byte without consuming it, or ok=false
	// at EOF. The lexer does not require Peek but a source must provide
	// it per the interface contract.
	PeekByte() (b byte, ok bool)
}

// sliceSource implements ByteSource over an in-memory byte slice.
type sliceSource struct {
	buf []byte
	pos int
}

// NewStringSource constructs a ByteSource that reads s's bytes in order.
func NewStringSource(s string) ByteSource {
	return &sliceSource{buf: []byte(s)}
}

// NewBytesSource constructs a ByteSource that reads b's bytes in order.
func NewBytesSource(b []byte) ByteSource {
	return &sliceSource{buf: b}
}

func (s *sliceSource) ReadByte() (byte, bool) {
	if s.pos >= len(s.buf) {
		return 0, false
	}
	b := s.buf[s.pos]
	s.pos++
	return b, true
}

func (s *sliceSource) UnreadByte(b byte) bool {
	if s.pos == 0 {
		return false
	}
	s.pos--
	s.buf[s.pos] = b
	return true
}

func (s *sliceSource) PeekByte() (byte, bool) {
	if s.pos >= len(s.buf) {
		return 0, false
	}
	return s.buf[s.pos], true
}

// readerSource implements ByteSource over any io.Reader, such as an
// *os.File, via a single-byte pushback buffer.
type readerSource struct {
	r      *bufio.Reader
	pushed byte
	has    bool
}

// NewReaderSource constructs a ByteSource backed by r.
func NewReaderSource(r io.Reader) ByteSource {
	return &readerSource{r: bufio.NewReader(r)}
}

func (s *readerSource) ReadByte() (byte, bool) {
	if s.has {
		s.has = false
		return s.pushed, true
	}
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, false
	}
	return b, true
}

func (s *readerSource) UnreadByte(b byte) bool {
	if s.has {
		return false
	}
	s.pushed = b
	s.has = true
	return true
}

func (s *readerSource) PeekByte() (byte, bool) {
	if s.has {
		return s.pushed, true
	}
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, false
	}
	_ = s.r.UnreadByte()
	return b, true
}

// Lexer tokenizes a ByteSource into an ordered sequence of Tokens. It is
// single-use: construct a new Lexer per source.
type Lexer struct {
	src  ByteSource
	line int
}

// New constructs a Lexer reading from src, starting at line 1.
func New(src ByteSource) *Lexer {
	return &Lexer{src: src, line: 1}
}

// Tokenize consumes src to exhaustion and returns every token scanned, in
// order. An unterminated string literal is the only tokenization error;
// it is reported with the line the opening quote appeared on.
func (lex *Lexer) Tokenize() ([]*token.Token, error) {
	var toks []*token.Token
	for {
		tok, err := lex.next()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

func (lex *Lexer) next() (*token.Token, error) {
	for {
		b, ok := lex.src.ReadByte()
		if !ok {
			return nil, nil
		}
		switch {
		case b == '\n':
			lex.line++
			continue
		case b == ' ' || b == '\t':
			continue
		case b == ';':
			lex.skipComment()
			continue
		case b == '(':
			return &token.Token{Type: token.OPEN_PAREN, Text: "(", Line: lex.line}, nil
		case b == ')':
			return &token.Token{Type: token.CLOSE_PAREN, Text: ")", Line: lex.line}, nil
		case b == '"':
			return lex.readString()
		default:
			return lex.readMisc(b)
		}
	}
}

// skipComment consumes bytes up to (but not including) the next newline;
// the newline itself is pushed back so the caller's main loop drives the
// line counter uniformly.
func (lex *Lexer) skipComment() {
	for {
		b, ok := lex.src.ReadByte()
		if !ok {
			return
		}
		if b == '\n' {
			lex.src.UnreadByte(b)
			return
		}
	}
}

// readString consumes bytes up to and including a matching closing
// double quote. No escape processing occurs: bytes are stored verbatim
// between the quotes, quotes included in the lexeme. An unmatched
// opening quote at EOF is a syntax error carrying the opening line.
func (lex *Lexer) readString() (*token.Token, error) {
	startLine := lex.line
	var buf bytes.Buffer
	buf.WriteByte('"')
	for {
		b, ok := lex.src.ReadByte()
		if !ok {
			return nil, lisp.Errorf(lisp.StatusSyntaxError, startLine, "unterminated string literal")
		}
		buf.WriteByte(b)
		if b == '\n' {
			lex.line++
		}
		if b == '"' {
			return &token.Token{Type: token.STRING_LIT, Text: buf.String(), Line: startLine}, nil
		}
	}
}

// isTerminator reports whether b ends a MISC run: whitespace, parens, or
// a comment marker.
func isTerminator(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '(', ')', ';':
		return true
	default:
		return false
	}
}

// readMisc consumes a maximal run of bytes terminated by whitespace,
// '(', ')', or ';', pushing the terminator back.
func (lex *Lexer) readMisc(first byte) (*token.Token, error) {
	startLine := lex.line
	var buf bytes.Buffer
	buf.WriteByte(first)
	for {
		b, ok := lex.src.ReadByte()
		if !ok {
			break
		}
		if isTerminator(b) {
			lex.src.UnreadByte(b)
			break
		}
		buf.WriteByte(b)
	}
	return &token.Token{Type: token.MISC, Text: buf.String(), Line: startLine}, nil
}
