// Package langutil collects the tree-sitter node helpers shared by the
// three language front-ends (python, php, jsts), mirroring the small
// utility surface inspector/golang/utils.go provides for the teacher's
// go/ast-based front-end: text extraction, line/column computation, and
// child lookup by grammar node type.
package langutil

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Text returns the verbatim source text spanned by n, or "" for a nil node.
func Text(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return string(src[n.StartByte():n.EndByte()])
}

// TrimmedText is Text with leading/trailing whitespace removed, useful for
// signatures and annotation text.
func TrimmedText(n *sitter.Node, src []byte) string {
	return strings.TrimSpace(Text(n, src))
}

// Line returns the 1-based source line a node starts on.
func Line(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPoint().Row) + 1
}

// EndLine returns the 1-based source line a node ends on.
func EndLine(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.EndPoint().Row) + 1
}

// ChildByType returns the first named child of n whose grammar type equals
// typ, or nil.
func ChildByType(n *sitter.Node, typ string) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == typ {
			return c
		}
	}
	return nil
}

// ChildrenByType returns every named child of n whose grammar type equals
// typ, in source order.
func ChildrenByType(n *sitter.Node, typ string) []*sitter.Node {
	if n == nil {
		return nil
	}
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == typ {
			out = append(out, c)
		}
	}
	return out
}

// Span returns a node's start byte, end byte and 1-based start line as three
// primitives; callers build their own model.Location from them, since
// langutil does not import pkg/model.
func Span(n *sitter.Node) (start, end, line int) {
	if n == nil {
		return 0, 0, 0
	}
	return int(n.StartByte()), int(n.EndByte()), Line(n)
}

// WalkPreOrder visits n and every descendant, depth-first, calling visit
// for each. Returning false from visit skips that subtree's children.
func WalkPreOrder(n *sitter.Node, visit func(*sitter.Node) bool) {
	if n == nil {
		return
	}
	stack := []*sitter.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(cur) {
			continue
		}
		for i := int(cur.ChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, cur.Child(i))
		}
	}
}

// IsUppercase reports whether name starts with an ASCII uppercase letter,
// used for the Python "module-level constant" heuristic (spec §4.2.1).
func IsUppercase(name string) bool {
	if name == "" {
		return false
	}
	r := name[0]
	return r >= 'A' && r <= 'Z'
}
