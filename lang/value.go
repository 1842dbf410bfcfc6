package lang

//go:generate go tool stringer --linecomment --type Kind --output value_string.go

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a [Value].
type Kind uint8

const (
	KindUnit      Kind = iota // unit
	KindString                // string
	KindInteger               // integer
	KindFloat                 // float
	KindList                  // list
	KindLambda                // lambda
	KindSymbolRef             // symbol-ref
	KindError                 // error
)

// Value is a runtime value. The zero Value is Unit.
//
// Values are immutable: list contents and lambda bodies are never modified
// after construction, so copies may share backing storage.
type Value struct {
	fn   *Lambda
	text string
	list []Value
	flt  float64
	num  int
	kind Kind
}

// Lambda is a user-defined procedure.
type Lambda struct {
	// closure is the defining scope under lexical scoping, nil otherwise.
	closure *Environment
	Params  []string
	Body    []Node
}

// Unit is the default value.
var Unit = Value{}

// StringValue returns a String value.
func StringValue(s string) Value { return Value{kind: KindString, text: s} }

// IntValue returns an Integer value.
func IntValue(i int) Value { return Value{kind: KindInteger, num: i} }

// FloatValue returns a Float value.
func FloatValue(f float64) Value { return Value{kind: KindFloat, flt: f} }

// BoolValue returns Integer 1 for true and Integer 0 for false.
func BoolValue(b bool) Value {
	if b {
		return IntValue(1)
	}

	return IntValue(0)
}

// ListValue returns a List value holding items.
func ListValue(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}

	return Value{kind: KindList, list: items}
}

// LambdaValue returns a Lambda value with the given parameters and body.
func LambdaValue(params []string, body []Node) Value {
	return Value{kind: KindLambda, fn: &Lambda{Params: params, Body: body}}
}

// SymbolRefValue returns a deferred reference to the binding named name.
func SymbolRefValue(name string) Value { return Value{kind: KindSymbolRef, text: name} }

// ErrorValue returns a script-visible Error value.
func ErrorValue(msg string) Value { return Value{kind: KindError, text: msg} }

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsUnit reports whether v is Unit.
func (v Value) IsUnit() bool { return v.kind == KindUnit }

// IsTrue reports whether v is Integer 1, the only value selecting the
// consequent of an if.
func (v Value) IsTrue() bool { return v.kind == KindInteger && v.num == 1 }

// AsString returns the contents of a String value.
func (v Value) AsString() (string, bool) { return v.text, v.kind == KindString }

// AsInt returns the contents of an Integer value.
func (v Value) AsInt() (int, bool) { return v.num, v.kind == KindInteger }

// AsFloat returns the contents of a Float value.
func (v Value) AsFloat() (float64, bool) { return v.flt, v.kind == KindFloat }

// AsList returns the items of a List value. The slice must not be
// modified.
func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == KindList }

// AsLambda returns the procedure held by a Lambda value.
func (v Value) AsLambda() (*Lambda, bool) { return v.fn, v.kind == KindLambda }

// AsSymbolRef returns the name referenced by a SymbolRef value.
func (v Value) AsSymbolRef() (string, bool) { return v.text, v.kind == KindSymbolRef }

// AsError returns the message of an Error value.
func (v Value) AsError() (string, bool) { return v.text, v.kind == KindError }

// Equal reports structural equality. Values of different kinds are never
// equal, so Integer 1 and Float 1.0 differ.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindUnit:
		return true
	case KindString, KindSymbolRef, KindError:
		return v.text == o.text
	case KindInteger:
		return v.num == o.num
	case KindFloat:
		return v.flt == o.flt
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}

		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}

		return true
	case KindLambda:
		return v.fn.Equal(o.fn)
	default:
		return false
	}
}

// Equal reports whether two lambdas have the same parameters and body.
func (l *Lambda) Equal(o *Lambda) bool {
	if l == o {
		return true
	}

	if l == nil || o == nil || len(l.Params) != len(o.Params) ||
		len(l.Body) != len(o.Body) {
		return false
	}

	for i := range l.Params {
		if l.Params[i] != o.Params[i] {
			return false
		}
	}

	for i := range l.Body {
		if !l.Body[i].Equal(o.Body[i]) {
			return false
		}
	}

	return true
}

// String returns the text form used by print and to-string. Unit renders
// empty, strings render without quotes, and list items are joined with
// commas.
func (v Value) String() string {
	var sb strings.Builder

	v.writeText(&sb)

	return sb.String()
}

func (v Value) writeText(sb *strings.Builder) {
	switch v.kind {
	case KindUnit:
	case KindString:
		sb.WriteString(v.text)
	case KindInteger:
		sb.WriteString(strconv.Itoa(v.num))
	case KindFloat:
		sb.WriteString(formatFloat(v.flt))
	case KindList:
		sb.WriteByte('(')

		for i, item := range v.list {
			if i > 0 {
				sb.WriteByte(',')
			}

			item.writeText(sb)
		}

		sb.WriteByte(')')
	case KindLambda:
		sb.WriteString(v.fn.String())
	case KindSymbolRef:
		sb.WriteByte('@')
		sb.WriteString(v.text)
	case KindError:
		sb.WriteString("error: ")
		sb.WriteString(v.text)
	}
}

// String renders the lambda as the source form that would construct it.
func (l *Lambda) String() string {
	params := make([]Node, len(l.Params))
	for i, p := range l.Params {
		params[i] = SymbolNode(p)
	}

	form := append([]Node{SymbolNode(formLambda), ListNode(params...)}, l.Body...)

	return ListNode(form...).String()
}

// GoString returns the tagged form printed by debug, such as
// Integer(3) or List[String("a"), Float(1.5)].
func (v Value) GoString() string {
	switch v.kind {
	case KindUnit:
		return "Unit"
	case KindString:
		return "String(" + strconv.Quote(v.text) + ")"
	case KindInteger:
		return "Integer(" + strconv.Itoa(v.num) + ")"
	case KindFloat:
		return "Float(" + formatFloat(v.flt) + ")"
	case KindList:
		items := make([]string, len(v.list))
		for i, item := range v.list {
			items[i] = item.GoString()
		}

		return "List[" + strings.Join(items, ", ") + "]"
	case KindLambda:
		return "Lambda" + v.fn.String()
	case KindSymbolRef:
		return "SymbolRef(" + v.text + ")"
	case KindError:
		return "Error(" + strconv.Quote(v.text) + ")"
	default:
		return v.kind.String()
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}
