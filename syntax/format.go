package syntax

import (
	"strings"

	"github.com/reusee/tnl/values"
)

// Format renders a node as canonical source text, parenthesizing only where
// precedence requires it.
func Format(node Node) string {
	var b strings.Builder
	format(&b, node, precLowest)
	return b.String()
}

func format(b *strings.Builder, node Node, outer int) {
	switch node := node.(type) {

	case *Program:
		for i, stmt := range node.Statements {
			if i > 0 {
				b.WriteString("\n")
			}
			format(b, stmt, precLowest)
		}

	case *Filter:
		b.WriteString("filter(")
		format(b, node.Predicate, precLowest)
		b.WriteString(")")

	case *Select:
		b.WriteString("select(")
		for i, item := range node.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, item.Expr, precLowest)
			if item.Alias != "" {
				b.WriteString(" as ")
				b.WriteString(item.Alias)
			}
		}
		b.WriteString(")")

	case *Let:
		b.WriteString("let ")
		b.WriteString(node.Name)
		if node.Declared != values.TypeUnknown {
			b.WriteString(": ")
			b.WriteString(node.Declared.String())
		}
		b.WriteString(" = ")
		format(b, node.Expr, precLowest)

	case *Literal:
		b.WriteString(node.Value.Literal())

	case *Ident:
		b.WriteString(node.Name)

	case *Binary:
		prec := binaryPrecedence[node.Op]
		if prec <= outer {
			b.WriteString("(")
		}
		// left associative: an equal-precedence right operand needs parens
		format(b, node.Left, prec-1)
		b.WriteString(" ")
		b.WriteString(node.Op)
		b.WriteString(" ")
		format(b, node.Right, prec)
		if prec <= outer {
			b.WriteString(")")
		}

	case *Unary:
		b.WriteString(node.Op)
		format(b, node.Operand, precUnary)

	case *Call:
		b.WriteString(node.Name)
		b.WriteString("(")
		for i, arg := range node.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, arg, precLowest)
		}
		b.WriteString(")")

	case *Aggregate:
		b.WriteString(node.Op)
		b.WriteString("(")
		format(b, node.Operand, precLowest)
		b.WriteString(")")

	}
}
