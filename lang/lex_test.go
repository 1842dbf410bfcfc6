package lang

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func lexAll(t *testing.T, src string) ([]Token, error) {
	t.Helper()

	lx := NewLexer(strings.NewReader(src))

	var toks []Token

	for {
		tok, err := lx.Next()
		if errors.Is(err, io.EOF) {
			return toks, nil
		}

		if err != nil {
			return toks, err
		}

		toks = append(toks, tok)
	}
}

func TestLexer_Tokens(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", ""},
		{"whitespace", " \t\n ", ""},
		{"parens", "()", "( )"},
		{"adjacent lists", `(cdr(1)(2)("asd"))`, `( symbol(cdr) ( symbol(1) ) ( symbol(2) ) ( string(asd) ) )`},
		{"symbol before open", "a(b", "symbol(a) ( symbol(b)"},
		{"punctuation symbols", "+ - <= str-join a.b", "symbol(+) symbol(-) symbol(<=) symbol(str-join) symbol(a.b)"},
		{"comment", "# note (ignored)\n(a)", "( symbol(a) )"},
		{"comment at end", "a # trailing", "symbol(a)"},
		{"hash inside symbol", "a#b", "symbol(a#b)"},
		{"string escapes", `"a\"b\\c\n"`, `string(a"b\cn)`},
		{"string with spaces", `"a b (c)"`, "string(a b (c))"},
		{"empty string", `""`, "string()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := lexAll(t, tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := make([]string, len(toks))
			for i, tok := range toks {
				got[i] = tok.String()
			}

			if s := strings.Join(got, " "); s != tt.want {
				t.Errorf("tokens = %q, want %q", s, tt.want)
			}
		})
	}
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unterminated string", `"abc`},
		{"unterminated escape", `"abc\`},
		{"non-ascii", "é"},
		{"quote in symbol", `a"b"`},
		{"control character", "\x01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lexAll(t, tt.src)
			if !errors.Is(err, ErrLex) {
				t.Errorf("error = %v, want ErrLex", err)
			}
		})
	}
}

func TestLexer_ErrorIsSticky(t *testing.T) {
	lx := NewLexer(strings.NewReader(`"open`))

	if _, err := lx.Next(); !errors.Is(err, ErrLex) {
		t.Fatalf("first error = %v", err)
	}

	if _, err := lx.Next(); !errors.Is(err, ErrLex) {
		t.Errorf("second error = %v", err)
	}
}

func TestLexer_Positions(t *testing.T) {
	toks, err := lexAll(t, "(a\n  bc)")
	if err != nil {
		t.Fatal(err)
	}

	want := []Position{
		{Offset: 0, Line: 1, Column: 1},
		{Offset: 1, Line: 1, Column: 2},
		{Offset: 5, Line: 2, Column: 3},
		{Offset: 7, Line: 2, Column: 5},
	}

	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}

	for i, tok := range toks {
		if tok.Pos != want[i] {
			t.Errorf("token %d (%s) at %+v, want %+v", i, tok, tok.Pos, want[i])
		}
	}
}
