package lang

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"unicode"
)

// commentMarker begins a comment when it starts a token.
const commentMarker = '#'

var errUnterminated = errors.New("unterminated string")

// Lexer produces tokens from a rune source on demand. It is finite and not
// restartable: once [Lexer.Next] returns an error, every later call
// returns an error as well.
type Lexer struct {
	src     io.RuneReader
	pending *Token
	err     error
	pos     Position
}

// NewLexer returns a Lexer reading runes from r.
func NewLexer(r io.RuneReader) *Lexer {
	return &Lexer{src: r, pos: Position{Line: 1, Column: 1}}
}

// Next returns the next token, [io.EOF] once input is exhausted, or an
// error matching [ErrLex].
func (l *Lexer) Next() (Token, error) {
	if l.pending != nil {
		t := *l.pending
		l.pending = nil

		return t, nil
	}

	if l.err != nil {
		return Token{}, l.err
	}

	t, err := l.scan()
	if err != nil {
		l.err = err
	}

	return t, err
}

func (l *Lexer) scan() (Token, error) {
	for {
		r, pos, err := l.read()
		if err != nil {
			return Token{}, err
		}

		switch {
		case unicode.IsSpace(r):
			continue

		case r == commentMarker:
			if err := l.skipComment(); err != nil {
				return Token{}, err
			}

			continue

		case r == '(':
			return Token{Kind: TokenOpen, Pos: pos}, nil

		case r == ')':
			return Token{Kind: TokenClose, Pos: pos}, nil

		case r == '"':
			return l.scanString(pos)

		case isSymbolRune(r):
			return l.scanSymbol(r, pos)

		default:
			return Token{}, ErrLex.WithPosition(pos).
				Wrapf("invalid character %q", r)
		}
	}
}

// skipComment discards runes up to and including the next control
// character other than a horizontal tab.
func (l *Lexer) skipComment() error {
	for {
		r, _, err := l.read()
		if err != nil {
			return err
		}

		if unicode.IsControl(r) && r != '\t' {
			return nil
		}
	}
}

func (l *Lexer) scanString(start Position) (Token, error) {
	var sb strings.Builder

	for {
		r, _, err := l.read()
		if errors.Is(err, io.EOF) {
			return Token{}, ErrLex.WithPosition(start).
				With(slog.String("text", sb.String())).Wrap(errUnterminated)
		}

		if err != nil {
			return Token{}, err
		}

		switch r {
		case '"':
			return Token{Kind: TokenString, Text: sb.String(), Pos: start}, nil

		case '\\':
			esc, _, err := l.read()
			if errors.Is(err, io.EOF) {
				return Token{}, ErrLex.WithPosition(start).
					With(slog.String("text", sb.String())).Wrap(errUnterminated)
			}

			if err != nil {
				return Token{}, err
			}

			sb.WriteRune(esc)

		default:
			sb.WriteRune(r)
		}
	}
}

func (l *Lexer) scanSymbol(first rune, start Position) (Token, error) {
	var sb strings.Builder

	sb.WriteRune(first)

	for {
		r, pos, err := l.read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return Token{}, err
		}

		if unicode.IsSpace(r) {
			break
		}

		if r == '(' || r == ')' {
			// The terminating parenthesis is a token of its own.
			kind := TokenOpen
			if r == ')' {
				kind = TokenClose
			}

			l.pending = &Token{Kind: kind, Pos: pos}

			break
		}

		if !isSymbolRune(r) {
			return Token{}, ErrLex.WithPosition(pos).
				With(slog.String("symbol", sb.String())).
				Wrapf("invalid character %q in symbol", r)
		}

		sb.WriteRune(r)
	}

	return Token{Kind: TokenSymbol, Text: sb.String(), Pos: start}, nil
}

// read returns the next rune and its position. Read errors other than
// io.EOF match [ErrReadInput].
func (l *Lexer) read() (rune, Position, error) {
	r, size, err := l.src.ReadRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, l.pos, io.EOF
		}

		return 0, l.pos, ErrReadInput.WithPosition(l.pos).Wrap(err)
	}

	pos := l.pos

	l.pos.Offset += size
	if r == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}

	return r, pos, nil
}

// isSymbolRune reports whether r may appear in a symbol: any ASCII letter,
// digit, or punctuation character except parentheses and the double quote.
func isSymbolRune(r rune) bool {
	if r > unicode.MaxASCII || r == '(' || r == ')' || r == '"' {
		return false
	}

	return unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.IsPunct(r) || unicode.IsSymbol(r)
}
