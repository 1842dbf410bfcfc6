package lang

import (
	"strconv"
	"strings"
)

// NodeKind classifies a [Node].
type NodeKind uint8

const (
	NodeList   NodeKind = iota // list
	NodeSymbol                 // symbol
	NodeValue                  // value
)

func (k NodeKind) String() string {
	switch k {
	case NodeList:
		return "list"
	case NodeSymbol:
		return "symbol"
	case NodeValue:
		return "value"
	default:
		return "NodeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Node is an element of the syntax tree. Nodes are immutable after
// parsing.
type Node struct {
	// Name is the identifier of a symbol node.
	Name string
	// List holds the elements of a list node.
	List []Node
	// Value is the literal held by a value node: a String, Integer, or
	// Float.
	Value Value
	Pos   Position
	Kind  NodeKind
}

// ListNode returns a list node with the given elements.
func ListNode(items ...Node) Node {
	if items == nil {
		items = []Node{}
	}

	return Node{Kind: NodeList, List: items}
}

// SymbolNode returns a symbol node.
func SymbolNode(name string) Node { return Node{Kind: NodeSymbol, Name: name} }

// LiteralNode returns a value node holding v.
func LiteralNode(v Value) Node { return Node{Kind: NodeValue, Value: v} }

// Head returns the symbol name at the head of a list node.
func (n Node) Head() (string, bool) {
	if n.Kind != NodeList || len(n.List) == 0 || n.List[0].Kind != NodeSymbol {
		return "", false
	}

	return n.List[0].Name, true
}

// Equal reports structural equality, ignoring positions.
func (n Node) Equal(o Node) bool {
	if n.Kind != o.Kind {
		return false
	}

	switch n.Kind {
	case NodeSymbol:
		return n.Name == o.Name
	case NodeValue:
		return n.Value.Equal(o.Value)
	case NodeList:
		if len(n.List) != len(o.List) {
			return false
		}

		for i := range n.List {
			if !n.List[i].Equal(o.List[i]) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// String renders n as source text that parses back to an equal node.
func (n Node) String() string {
	var sb strings.Builder

	n.write(&sb)

	return sb.String()
}

func (n Node) write(sb *strings.Builder) {
	switch n.Kind {
	case NodeSymbol:
		sb.WriteString(n.Name)

	case NodeValue:
		sb.WriteString(literal(n.Value))

	case NodeList:
		sb.WriteByte('(')

		for i, item := range n.List {
			if i > 0 {
				sb.WriteByte(' ')
			}

			item.write(sb)
		}

		sb.WriteByte(')')
	}
}

// literal renders a String, Integer, or Float value in source syntax.
// Floats always carry a decimal point so they are not read back as
// integers.
func literal(v Value) string {
	switch v.kind {
	case KindString:
		return quote(v.text)
	case KindFloat:
		s := formatFloat(v.flt)
		if !strings.ContainsAny(s, ".nN") {
			s += ".0"
		}

		return s
	default:
		return v.String()
	}
}

func quote(s string) string {
	var sb strings.Builder

	sb.Grow(len(s) + 2)
	sb.WriteByte('"')

	for _, r := range s {
		if r == '"' || r == '\\' {
			sb.WriteByte('\\')
		}

		sb.WriteRune(r)
	}

	sb.WriteByte('"')

	return sb.String()
}
