package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// lineWidth is the width beyond which Format breaks a list across lines.
const lineWidth = 80

// Format writes nodes as source text, one top-level form per line. With a
// positive indent, lists wider than the line are broken with their
// elements indented by that many spaces. Comments are not preserved.
func Format(_ context.Context, w io.Writer, nodes []Node, indent int) error {
	var sb strings.Builder

	for _, n := range nodes {
		formatNode(&sb, n, indent, 0)
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

func formatNode(sb *strings.Builder, n Node, indent, depth int) {
	flat := n.String()

	if indent <= 0 || n.Kind != NodeList || len(n.List) < 2 ||
		depth*indent+len(flat) <= lineWidth {
		sb.WriteString(flat)

		return
	}

	pad := strings.Repeat(" ", (depth+1)*indent)

	sb.WriteByte('(')
	formatNode(sb, n.List[0], indent, depth+1)

	for _, item := range n.List[1:] {
		sb.WriteByte('\n')
		sb.WriteString(pad)
		formatNode(sb, item, indent, depth+1)
	}

	sb.WriteByte(')')
}

// FormatJSON writes nodes as a JSON array of tagged nodes.
func FormatJSON(_ context.Context, w io.Writer, nodes []Node, indent int) error {
	var (
		data []byte
		err  error
	)

	tree := nativeNodes(nodes)

	if indent > 0 {
		data, err = json.MarshalIndent(tree, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(tree)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes nodes as a YAML sequence of tagged nodes. A
// non-positive indent selects flow style.
func FormatYAML(ctx context.Context, w io.Writer, nodes []Node, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent), yaml.IndentSequence(true))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, nativeNodes(nodes), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// FormatAST writes the tagged debug form of each top-level node.
func FormatAST(_ context.Context, w io.Writer, nodes []Node, _ int) error {
	for _, n := range nodes {
		if _, err := fmt.Fprintf(w, "%#v\n", n); err != nil {
			return err
		}
	}

	return nil
}

// GoString renders n with its kind tags, such as
// List[Symbol(+), Integer(1), Integer(2)].
func (n Node) GoString() string {
	switch n.Kind {
	case NodeSymbol:
		return "Symbol(" + n.Name + ")"
	case NodeValue:
		return n.Value.GoString()
	case NodeList:
		items := make([]string, len(n.List))
		for i, item := range n.List {
			items[i] = item.GoString()
		}

		return "List[" + strings.Join(items, ", ") + "]"
	default:
		return n.Kind.String()
	}
}

// Native returns n as a tree of single-key maps keyed by node kind:
// {"list": [...]}, {"symbol": name}, {"string": s}, {"integer": i}, or
// {"float": f}.
func (n Node) Native() map[string]any {
	switch n.Kind {
	case NodeList:
		return map[string]any{NodeList.String(): nativeNodes(n.List)}
	case NodeSymbol:
		return map[string]any{NodeSymbol.String(): n.Name}
	default:
		native, _ := n.Value.Native()

		return map[string]any{n.Value.kind.String(): native}
	}
}

// MarshalJSON encodes the tagged form returned by [Node.Native].
func (n Node) MarshalJSON() ([]byte, error) { return json.Marshal(n.Native()) }

func nativeNodes(nodes []Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = n.Native()
	}

	return out
}
