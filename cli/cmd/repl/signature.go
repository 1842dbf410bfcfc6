package repl

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/frisp/lang"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// variadicSuffix marks a parameter that absorbs every remaining operand.
const variadicSuffix = "..."

// specialForms describes the operands of each special form.
var specialForms = map[string]signature{
	"define":  {name: "define", params: []string{"name", "value"}, usage: "Bind a value in the current scope"},
	"if":      {name: "if", params: []string{"test", "then", "else"}, usage: "Select a branch when test is 1"},
	"lambda":  {name: "lambda", params: []string{"params", "body..."}, usage: "Construct a function"},
	"progn":   {name: "progn", params: []string{"forms..."}, usage: "Evaluate forms in order, yielding the last"},
	"eval":    {name: "eval", params: []string{"source"}, usage: "Evaluate script text in the current scope"},
	"include": {name: "include", params: []string{"path"}, usage: "Evaluate a script file in the current scope"},
}

// signature is the operand list of something callable.
type signature struct {
	name   string
	params []string
	usage  string
}

// String renders the signature as a call form, e.g. (cons item list).
func (s signature) String() string {
	return "(" + strings.Join(append([]string{s.name}, s.params...), " ") + ")"
}

// call describes the innermost list form enclosing the cursor.
type call struct {
	name   string // head symbol of the form
	arg    int    // 0-based index of the operand at the cursor
	inCall bool   // the cursor is past the head of a form with a symbol head
}

// detectCall scans input up to cursor and reports the innermost unclosed
// form and which of its operands the cursor is on. Operands are counted as
// they complete: a nested list, a string, or a run of symbol characters.
func detectCall(input string, cursor int) call {
	if cursor > len(input) {
		cursor = len(input)
	}

	type frame struct {
		head  string
		named bool
		args  int
	}

	var (
		stack        []frame
		tok          strings.Builder
		inTok, inStr bool
		escaped      bool
	)

	// complete records a finished element in the innermost frame.
	complete := func(text string) {
		if len(stack) == 0 {
			return
		}

		top := &stack[len(stack)-1]
		if !top.named {
			top.head, top.named = text, true
		} else {
			top.args++
		}
	}

	endTok := func() {
		if inTok {
			complete(tok.String())
			tok.Reset()

			inTok = false
		}
	}

	for _, r := range input[:cursor] {
		switch {
		case inStr:
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inStr = false

				complete("")
			}

		case r == '"':
			endTok()

			inStr = true

		case r == '(':
			endTok()
			complete("")

			stack = append(stack, frame{})

		case r == ')':
			endTok()

			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case unicode.IsSpace(r):
			endTok()

		default:
			inTok = true

			tok.WriteRune(r)
		}
	}

	if len(stack) == 0 {
		return call{}
	}

	top := stack[len(stack)-1]
	if !top.named || top.head == "" {
		return call{}
	}

	return call{name: top.head, arg: top.args, inCall: true}
}

// lookupSignature returns the signature of a special form, builtin, or
// lambda bound to name in env.
func lookupSignature(env *lang.Environment, name string) (signature, bool) {
	if sig, ok := specialForms[name]; ok {
		for _, form := range env.SpecialForms() {
			if form == name {
				return sig, true
			}
		}

		return signature{}, false
	}

	b, ok := env.Lookup(name)
	if !ok {
		return signature{}, false
	}

	if fn, ok := b.Builtin(); ok {
		return signature{name: name, params: builtinParams(fn), usage: fn.Usage}, true
	}

	v, _ := b.Constant()
	if l, ok := v.AsLambda(); ok {
		return signature{name: name, params: l.Params}, true
	}

	return signature{}, false
}

// builtinParams names the operands of a builtin by position: required
// operands plainly, optional ones in brackets, and a variadic tail with a
// trailing ellipsis.
func builtinParams(fn *lang.Builtin) []string {
	var params []string

	for i := range fn.Min {
		params = append(params, "arg"+strconv.Itoa(i+1))
	}

	if fn.Max == lang.Variadic {
		return append(params, "args"+variadicSuffix)
	}

	for i := fn.Min; i < fn.Max; i++ {
		params = append(params, "[arg"+strconv.Itoa(i+1)+"]")
	}

	return params
}

// renderSignatureHint renders sig as a call form with the operand at index
// arg highlighted, followed by its usage text.
func renderSignatureHint(sig signature, arg int) string {
	var b strings.Builder

	b.WriteString(signatureStyle.Render("("))
	b.WriteString(signatureNameStyle.Render(sig.name))

	for i, param := range sig.params {
		b.WriteString(signatureStyle.Render(" "))

		variadic := strings.HasSuffix(param, variadicSuffix)
		if (variadic && arg >= i) || (!variadic && arg == i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	if sig.usage != "" {
		b.WriteString(signatureStyle.Render("  " + sig.usage))
	}

	return b.String()
}
