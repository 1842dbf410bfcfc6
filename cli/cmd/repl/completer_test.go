package repl

import (
	"slices"
	"testing"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_paren", "(ca", 3, "ca", 1, 3},
		{"operand", "(car lis", 8, "lis", 5, 8},
		{"operator_symbol", "(+ 1 2", 2, "+", 1, 2},
		{"empty_after_space", "(car ", 5, "", 5, 5},
		{"empty_after_paren", "(", 1, "", 1, 1},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"before_close", "(f x)", 4, "x", 3, 4},
		{"after_quote", `(print "a" b`, 12, "b", 11, 12},
		// Hyphens and other punctuation are part of symbols.
		{"hyphenated", "(str-spl", 8, "str-spl", 1, 8},
		{"cursor_past_end", "abc", 10, "abc", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestInString(t *testing.T) {
	tests := []struct {
		input  string
		offset int
		want   bool
	}{
		{`(print "ab`, 10, true},
		{`(print "ab"`, 11, false},
		{`(print "a\"b`, 12, true},
		{`(print x`, 8, false},
		{`"`, 1, true},
	}

	for _, tt := range tests {
		if got := inString(tt.input, tt.offset); got != tt.want {
			t.Errorf("inString(%q, %d) = %v, want %v", tt.input, tt.offset, got, tt.want)
		}
	}
}

func TestCompletions(t *testing.T) {
	candidates := []string{"car", "cdr", "cons", "str-concat", "str-split"}

	if got := completions("", candidates); got != nil {
		t.Errorf("completions(\"\") = %v, want nil", got)
	}

	got := completions("cs", candidates)

	var names []string
	for _, m := range got {
		names = append(names, m.Str)
	}

	if !slices.Contains(names, "cons") || slices.Contains(names, "car") {
		t.Errorf("completions(\"cs\") = %v, want cons and not car", names)
	}
}

func TestPrefixCompletions(t *testing.T) {
	candidates := []string{"car", "cdr", "cons", "str-concat"}

	tests := []struct {
		line string
		want []string
	}{
		{"(c", []string{"(car", "(cdr", "(cons"}},
		{"(cons 1 (co", []string{"(cons 1 (cons"}},
		{"(str-", []string{"(str-concat"}},
		{"(car ", nil},
		{`(print "c`, nil},
	}

	for _, tt := range tests {
		if got := prefixCompletions(tt.line, candidates); !slices.Equal(got, tt.want) {
			t.Errorf("prefixCompletions(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}
