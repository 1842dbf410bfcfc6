package lang

//go:generate go tool stringer --linecomment --type TokenKind --output token_string.go

// TokenKind classifies a [Token].
type TokenKind uint8

const (
	TokenOpen   TokenKind = iota // (
	TokenClose                   // )
	TokenString                  // string
	TokenSymbol                  // symbol
)

// Token is a single lexical unit. Text holds the unescaped contents of a
// string literal or the characters of a symbol run.
type Token struct {
	Text string
	Pos  Position
	Kind TokenKind
}

func (t Token) String() string {
	switch t.Kind {
	case TokenString, TokenSymbol:
		return t.Kind.String() + "(" + t.Text + ")"
	default:
		return t.Kind.String()
	}
}
