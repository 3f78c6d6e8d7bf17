// Package scanner tokenizes preprocessor input one byte at a time.
//
// The scanner keeps a single buffered lookahead byte instead of relying
// on stream pushback, and tracks the line and column of that byte so
// the caller can tell a directive in column 1 apart from stray text.
package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Kind classifies a token.
type Kind uint8

const (
	KindEOF Kind = iota
	KindIdentifier
	KindString
	KindOther
	KindNewline
	KindBad
)

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "EOF"
	case KindIdentifier:
		return "Identifier"
	case KindString:
		return "String"
	case KindOther:
		return "Other"
	case KindNewline:
		return "Newline"
	case KindBad:
		return "Bad"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Token is a classified lexeme. Text holds the exact captured bytes;
// for strings that includes the quote delimiters. Line and Column are
// 1-based and refer to the token's first byte.
type Token struct {
	Kind   Kind
	Text   string
	Line   int
	Column int
}

// Fatal scan conditions. The scanner returns these wrapped with the
// line number; it never terminates the process itself.
var (
	ErrUnterminatedString  = errors.New("unexpected end of file inside string")
	ErrUnterminatedComment = errors.New("unexpected end of file inside comment")
)

type state uint8

const (
	stStart state = iota
	stIdentifier
	stSingleQuote
	stDoubleQuote
	stComment
	stOther
)

// Scanner owns a forward-only cursor into the input stream.
type Scanner struct {
	r    *bufio.Reader
	cur  byte // lookahead byte, valid unless eof is set
	eof  bool
	line int // position of cur
	col  int
}

// New creates a scanner positioned at the first byte of r.
func New(r io.Reader) *Scanner {
	s := &Scanner{r: bufio.NewReader(r), line: 1}
	s.advance()
	return s
}

// advance loads the next byte into the lookahead, updating position.
func (s *Scanner) advance() {
	if s.eof {
		return
	}
	if s.cur == '\n' {
		s.line++
		s.col = 0
	}
	b, err := s.r.ReadByte()
	if err != nil {
		s.eof = true
		s.cur = 0
		return
	}
	s.cur = b
	s.col++
}

// peek returns the byte after the lookahead, or 0 at end of input.
func (s *Scanner) peek() byte {
	bs, err := s.r.Peek(1)
	if err != nil {
		return 0
	}
	return bs[0]
}

// Next consumes bytes from the stream and returns exactly one token.
// It never leaves the stream positioned mid-escape or mid-comment.
// The only errors are the unterminated-string and unterminated-comment
// conditions, which the caller must treat as unrecoverable.
func (s *Scanner) Next() (Token, error) {
	st := stStart
	resume := stStart // state to re-enter after a comment closes
	var text strings.Builder
	tok := Token{Line: s.line, Column: s.col}

	for {
		switch st {
		case stStart:
			switch {
			case s.eof:
				return Token{Kind: KindEOF, Line: s.line, Column: s.col}, nil
			case s.cur == ' ' || s.cur == '\t' || s.cur == '\r':
				// whitespace is not significant
			case s.cur == '\n':
				tok = Token{Kind: KindNewline, Text: "\n", Line: s.line, Column: s.col}
				s.advance()
				return tok, nil
			case s.cur == '\'':
				tok.Line, tok.Column = s.line, s.col
				text.WriteByte(s.cur)
				st = stSingleQuote
			case s.cur == '"':
				tok.Line, tok.Column = s.line, s.col
				text.WriteByte(s.cur)
				st = stDoubleQuote
			case isIdentStart(s.cur):
				tok.Line, tok.Column = s.line, s.col
				text.WriteByte(s.cur)
				st = stIdentifier
			case s.cur == '/' && s.peek() == '*':
				s.advance() // consume '/', bottom advance eats '*'
				resume = stStart
				st = stComment
			case s.cur == '\\' && s.peek() == '\n':
				s.advance() // line continuation, skip both bytes
			default:
				tok.Line, tok.Column = s.line, s.col
				text.WriteByte(s.cur)
				st = stOther
			}

		case stIdentifier:
			if s.eof || !isIdentPart(s.cur) {
				// the lookahead byte stays buffered for the next call
				tok.Kind = KindIdentifier
				tok.Text = text.String()
				return tok, nil
			}
			text.WriteByte(s.cur)

		case stSingleQuote, stDoubleQuote:
			quote := byte('\'')
			if st == stDoubleQuote {
				quote = '"'
			}
			switch {
			case s.eof:
				return Token{}, fmt.Errorf("line %d: %w", tok.Line, ErrUnterminatedString)
			case s.cur == quote:
				text.WriteByte(s.cur)
				s.advance()
				tok.Kind = KindString
				tok.Text = text.String()
				return tok, nil
			case s.cur == '\\' && s.peek() == quote:
				// escaped quote, kept as a single literal quote
				text.WriteByte(quote)
				s.advance()
			case s.cur == '\\' && s.peek() == '\n':
				s.advance() // line continuation inside the string
			case s.cur == '\n':
				// malformed: a string cannot span a bare newline
				tok.Kind = KindBad
				tok.Text = text.String()
				s.advance() // move on to the next line
				return tok, nil
			default:
				text.WriteByte(s.cur)
			}

		case stComment:
			switch {
			case s.eof:
				return Token{}, fmt.Errorf("line %d: %w", s.line, ErrUnterminatedComment)
			case s.cur == '*' && s.peek() == '/':
				s.advance() // '*'
				s.advance() // '/'
				if resume == stStart && s.cur == '\n' {
					s.advance()
				}
				st = resume
				continue
			}

		case stOther:
			switch {
			case s.eof || s.cur == ' ' || s.cur == '\t' || s.cur == '\r' || s.cur == '\n':
				// the terminator starts a fresh token on the next call
				tok.Kind = KindOther
				tok.Text = text.String()
				return tok, nil
			case s.cur == '/' && s.peek() == '*':
				s.advance()
				resume = stOther
				st = stComment
			default:
				text.WriteByte(s.cur)
			}
		}

		s.advance()
	}
}

// NextLine consumes and returns the remainder of the current line,
// without the terminator, starting from the lookahead byte. Used by
// the caller to capture a macro value after a #define directive.
func (s *Scanner) NextLine() string {
	var b strings.Builder
	for !s.eof && s.cur != '\n' {
		b.WriteByte(s.cur)
		s.advance()
	}
	if !s.eof {
		s.advance() // consume the newline
	}
	return b.String()
}

func isIdentStart(b byte) bool {
	return b == '#' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentPart(b byte) bool {
	return b == '.' || (b >= '0' && b <= '9') ||
		(b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
