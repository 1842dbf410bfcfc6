package lang

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	long := strings.Repeat("a", 20)

	tests := []struct {
		name   string
		src    string
		indent int
		want   string
	}{
		{
			name: "flat",
			src:  "(define x   1)\n\n# comment\n(print  x \"y\")",
			want: "(define x 1)\n(print x \"y\")\n",
		},
		{
			name:   "short lists stay flat",
			src:    "(if (< n 2) n (+ n 1))",
			indent: 2,
			want:   "(if (< n 2) n (+ n 1))\n",
		},
		{
			name: "long list without indent",
			src: `(list "` + long + `" "` + long + `" "` + long + `" "` + long + `")`,
			want: `(list "` + long + `" "` + long + `" "` + long + `" "` + long + `")` + "\n",
		},
		{
			name:   "long list broken",
			src:    `(define xs (list "` + long + `" "` + long + `" "` + long + `" "` + long + `"))`,
			indent: 2,
			want: "(define\n" +
				"  xs\n" +
				"  (list\n" +
				`    "` + long + `"` + "\n" +
				`    "` + long + `"` + "\n" +
				`    "` + long + `"` + "\n" +
				`    "` + long + `"))` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := ParseString(tt.src)
			if err != nil {
				t.Fatal(err)
			}

			var out bytes.Buffer
			if err := Format(t.Context(), &out, nodes, tt.indent); err != nil {
				t.Fatal(err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("Format =\n%s\nwant\n%s", got, tt.want)
			}

			again, err := ParseString(out.String())
			if err != nil {
				t.Fatalf("formatted output does not parse: %v", err)
			}

			if len(again) != len(nodes) {
				t.Fatalf("formatted output has %d forms, want %d", len(again), len(nodes))
			}

			for i := range nodes {
				if !again[i].Equal(nodes[i]) {
					t.Errorf("form %d changed: %s", i, again[i])
				}
			}
		})
	}
}

func TestFormatJSON(t *testing.T) {
	nodes, err := ParseString(`(+ 1 "a" 2.5 x)`)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := FormatJSON(t.Context(), &out, nodes, 0); err != nil {
		t.Fatal(err)
	}

	want := `[{"list":[{"symbol":"+"},{"integer":1},{"string":"a"},{"float":2.5},{"symbol":"x"}]}]` + "\n"
	if got := out.String(); got != want {
		t.Errorf("FormatJSON = %s, want %s", got, want)
	}

	out.Reset()

	if err := FormatJSON(t.Context(), &out, nodes, 2); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), "\n      {\n        \"symbol\": \"+\"\n      },") {
		t.Errorf("FormatJSON indented =\n%s", out.String())
	}
}

func TestFormatYAML(t *testing.T) {
	nodes, err := ParseString(`(add 1 "a")`)
	if err != nil {
		t.Fatal(err)
	}

	var block bytes.Buffer
	if err := FormatYAML(t.Context(), &block, nodes, 2); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"- list:", "symbol: add", "integer: 1", "string: a"} {
		if !strings.Contains(block.String(), want) {
			t.Errorf("FormatYAML block output missing %q:\n%s", want, block.String())
		}
	}

	var flow bytes.Buffer
	if err := FormatYAML(t.Context(), &flow, nodes, 0); err != nil {
		t.Fatal(err)
	}

	if s := flow.String(); !strings.HasPrefix(s, "[") || !strings.Contains(s, "symbol: add") {
		t.Errorf("FormatYAML flow output = %s", s)
	}
}

func TestFormatAST(t *testing.T) {
	nodes, err := ParseString(`(+ 1 "a") x 0.5`)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := FormatAST(t.Context(), &out, nodes, 0); err != nil {
		t.Fatal(err)
	}

	want := "List[Symbol(+), Integer(1), String(\"a\")]\nSymbol(x)\nFloat(0.5)\n"
	if got := out.String(); got != want {
		t.Errorf("FormatAST = %q, want %q", got, want)
	}
}
