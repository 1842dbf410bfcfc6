package lang

import (
	"bufio"
	"errors"
	"io"
	"iter"
	"strconv"
	"strings"
)

// Parser assembles tokens into top-level nodes on demand. Like the
// [Lexer] it reads from, it is finite and not restartable.
type Parser struct {
	lex   *Lexer
	err   error
	stack [][]Node
	open  []Position
}

// NewParser returns a Parser consuming tokens from lex.
func NewParser(lex *Lexer) *Parser {
	return &Parser{lex: lex}
}

// NewReaderParser returns a Parser over script text read from r.
func NewReaderParser(r io.Reader) *Parser {
	rr, ok := r.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(r)
	}

	return NewParser(NewLexer(rr))
}

// Next returns the next complete top-level node, [io.EOF] once the input
// is exhausted between top-level forms, or an error matching [ErrLex],
// [ErrParse], or [ErrReadInput].
func (p *Parser) Next() (Node, error) {
	if p.err != nil {
		return Node{}, p.err
	}

	n, err := p.next()
	if err != nil {
		p.err = err
	}

	return n, err
}

func (p *Parser) next() (Node, error) {
	for {
		tok, err := p.lex.Next()
		if errors.Is(err, io.EOF) {
			if len(p.open) > 0 {
				return Node{}, ErrParse.WithPosition(p.open[len(p.open)-1]).
					Wrapf("end of input with %d unclosed list(s)", len(p.open))
			}

			return Node{}, io.EOF
		}

		if err != nil {
			return Node{}, err
		}

		switch tok.Kind {
		case TokenOpen:
			p.stack = append(p.stack, []Node{})
			p.open = append(p.open, tok.Pos)

		case TokenClose:
			if len(p.stack) == 0 {
				return Node{}, ErrParse.WithPosition(tok.Pos).
					Wrapf("unexpected %q without matching %q", ")", "(")
			}

			top := len(p.stack) - 1
			list := Node{Kind: NodeList, List: p.stack[top], Pos: p.open[top]}
			p.stack, p.open = p.stack[:top], p.open[:top]

			if done, ok := p.push(list); ok {
				return done, nil
			}

		case TokenString:
			n := Node{Kind: NodeValue, Value: StringValue(tok.Text), Pos: tok.Pos}
			if done, ok := p.push(n); ok {
				return done, nil
			}

		case TokenSymbol:
			if done, ok := p.push(classify(tok)); ok {
				return done, nil
			}
		}
	}
}

// push appends n to the innermost open list, or reports it as complete
// when no list is open.
func (p *Parser) push(n Node) (Node, bool) {
	if len(p.stack) == 0 {
		return n, true
	}

	top := len(p.stack) - 1
	p.stack[top] = append(p.stack[top], n)

	return Node{}, false
}

// All returns an iterator over the remaining top-level nodes. Iteration
// stops after the first error, which is yielded with a zero Node.
func (p *Parser) All() iter.Seq2[Node, error] {
	return func(yield func(Node, error) bool) {
		for {
			n, err := p.Next()
			if errors.Is(err, io.EOF) {
				return
			}

			if !yield(n, err) || err != nil {
				return
			}
		}
	}
}

// classify turns a symbol token into an Integer or Float literal when it
// reads as a number, and a symbol node otherwise.
func classify(tok Token) Node {
	if v, ok := parseNumber(tok.Text); ok {
		return Node{Kind: NodeValue, Value: v, Pos: tok.Pos}
	}

	return Node{Kind: NodeSymbol, Name: tok.Text, Pos: tok.Pos}
}

func parseNumber(s string) (Value, bool) {
	if i, err := strconv.Atoi(s); err == nil {
		return IntValue(i), true
	}

	// Only plain decimal notation with a point is a float: no exponents,
	// hex mantissas, or named values such as "inf".
	if !strings.Contains(s, ".") ||
		strings.Trim(s, "+-0123456789.") != "" ||
		strings.LastIndexAny(s, "+-") > 0 {
		return Unit, false
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return FloatValue(f), true
	}

	return Unit, false
}

// ParseString parses every top-level form in src. Nothing is returned
// unless the whole text is well formed.
func ParseString(src string) ([]Node, error) {
	return ParseReader(strings.NewReader(src))
}

// ParseReader parses every top-level form read from r.
func ParseReader(r io.Reader) ([]Node, error) {
	var nodes []Node

	for n, err := range NewReaderParser(r).All() {
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, n)
	}

	return nodes, nil
}

// Incomplete reports whether src ends inside an open list or string, so
// that more text could complete it. Text malformed in any other way is not
// incomplete.
func Incomplete(src string) bool {
	lex := NewLexer(strings.NewReader(src))
	depth := 0

	for {
		tok, err := lex.Next()

		switch {
		case errors.Is(err, io.EOF):
			return depth > 0
		case err != nil:
			return errors.Is(err, errUnterminated)
		case tok.Kind == TokenOpen:
			depth++
		case tok.Kind == TokenClose:
			if depth--; depth < 0 {
				return false
			}
		}
	}
}
