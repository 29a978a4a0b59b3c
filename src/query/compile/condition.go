package compile

import (
	"strings"

	"github.com/spanq/spanq/sqlerror"
	"github.com/spanq/spanq/src/query"
)

// writeCond serializes a condition node. Parenthesization falls directly out
// of group boundaries: a group with a single child writes that child bare,
// and a group with two or more children wraps the joined list in exactly one
// pair of parentheses. Applied recursively this yields correctly nested
// boolean expressions without a separate precedence pass.
func writeCond(b *strings.Builder, node query.Cond) error {
	switch n := node.(type) {
	case query.Condition:
		return writeLeaf(b, n)
	case query.Group:
		return writeGroup(b, n)
	case nil:
		return sqlerror.Internal("nil condition node")
	default:
		return sqlerror.Internalf("unknown condition node type %T", node)
	}
}

func writeGroup(b *strings.Builder, g query.Group) error {
	if g.Op != query.OpAnd && g.Op != query.OpOr {
		return sqlerror.Internalf("unknown group operator %q", g.Op)
	}
	switch len(g.Nodes) {
	case 0:
		// The identity for the operator: TRUE for AND, FALSE for OR.
		if g.Op == query.OpAnd {
			b.WriteString("TRUE")
		} else {
			b.WriteString("FALSE")
		}
		return nil
	case 1:
		return writeCond(b, g.Nodes[0])
	default:
		b.WriteString("(")
		for i, child := range g.Nodes {
			if i > 0 {
				b.WriteString(" ")
				b.WriteString(string(g.Op))
				b.WriteString(" ")
			}
			if err := writeCond(b, child); err != nil {
				return err
			}
		}
		b.WriteString(")")
		return nil
	}
}

func writeLeaf(b *strings.Builder, c query.Condition) error {
	switch c.Kind {
	case query.CondCompare:
		return writeCompare(b, c)
	case query.CondIn:
		return writeIn(b, c)
	case query.CondInUnnest:
		return writeInUnnest(b, c)
	case query.CondLike:
		return writeLike(b, c)
	case query.CondFunc:
		return writeFuncCall(b, c)
	case query.CondNull:
		return writeNullCheck(b, c)
	case query.CondCols:
		return writeColCompare(b, c)
	default:
		return sqlerror.Internalf("unknown condition kind %q", c.Kind)
	}
}

func writeCompare(b *strings.Builder, c query.Condition) error {
	switch c.Operator {
	case "=", "!=", "<", ">", "<=", ">=":
	default:
		return sqlerror.Internalf("unsupported comparison operator %q", c.Operator)
	}
	if c.Param == "" {
		if c.Value != nil {
			return sqlerror.Internalf("comparison on %q has a value but no placeholder", c.Column)
		}
		// Equality against null is rewritten; other operators must carry a
		// registered placeholder even for null.
		switch c.Operator {
		case "=":
			b.WriteString(c.Column)
			b.WriteString(" IS NULL")
			return nil
		case "!=":
			b.WriteString(c.Column)
			b.WriteString(" IS NOT NULL")
			return nil
		default:
			return sqlerror.Internalf("comparison on %q is missing its placeholder", c.Column)
		}
	}
	b.WriteString(c.Column)
	b.WriteString(" ")
	b.WriteString(c.Operator)
	b.WriteString(" ")
	b.WriteString(placeholder(c.Param))
	return nil
}

func writeIn(b *strings.Builder, c query.Condition) error {
	if c.Operator != "IN" && c.Operator != "NOT IN" {
		return sqlerror.Internalf("unsupported IN operator %q", c.Operator)
	}
	if len(c.Values) == 0 && len(c.ParamNames) == 0 {
		// IN () would be invalid SQL; an empty list collapses to its truth
		// value instead.
		writeEmptyListLiteral(b, c.Operator)
		return nil
	}
	if len(c.ParamNames) != len(c.Values) {
		return sqlerror.ParamMismatchf(
			"IN condition on %q has %d values but %d placeholders",
			c.Column, len(c.Values), len(c.ParamNames))
	}
	b.WriteString(c.Column)
	b.WriteString(" ")
	b.WriteString(c.Operator)
	b.WriteString(" (")
	for i, name := range c.ParamNames {
		if i > 0 {
			b.WriteString(", ")
		}
		if name == "" {
			return sqlerror.Internalf("IN condition on %q has an empty placeholder name", c.Column)
		}
		b.WriteString(placeholder(name))
	}
	b.WriteString(")")
	return nil
}

func writeInUnnest(b *strings.Builder, c query.Condition) error {
	if c.Operator != "IN" && c.Operator != "NOT IN" {
		return sqlerror.Internalf("unsupported UNNEST operator %q", c.Operator)
	}
	if c.Param == "" {
		if c.Value != nil {
			return sqlerror.Internalf("UNNEST condition on %q has a value but no placeholder", c.Column)
		}
		writeEmptyListLiteral(b, c.Operator)
		return nil
	}
	b.WriteString(c.Column)
	b.WriteString(" ")
	b.WriteString(c.Operator)
	b.WriteString(" UNNEST(")
	b.WriteString(placeholder(c.Param))
	b.WriteString(")")
	return nil
}

// writeEmptyListLiteral writes the truth value an empty membership test
// collapses to: nothing is IN an empty list, everything is NOT IN it.
func writeEmptyListLiteral(b *strings.Builder, op string) {
	if op == "IN" {
		b.WriteString("FALSE")
	} else {
		b.WriteString("TRUE")
	}
}

func writeLike(b *strings.Builder, c query.Condition) error {
	if c.Operator != "LIKE" && c.Operator != "NOT LIKE" {
		return sqlerror.Internalf("unsupported LIKE operator %q", c.Operator)
	}
	if c.Param == "" {
		return sqlerror.Internalf("LIKE condition on %q is missing its placeholder", c.Column)
	}
	b.WriteString(c.Column)
	b.WriteString(" ")
	b.WriteString(c.Operator)
	b.WriteString(" ")
	b.WriteString(placeholder(c.Param))
	return nil
}

func writeFuncCall(b *strings.Builder, c query.Condition) error {
	if c.Operator != "STARTS_WITH" && c.Operator != "ENDS_WITH" {
		return sqlerror.Internalf("unsupported condition function %q", c.Operator)
	}
	if c.Param == "" {
		return sqlerror.Internalf("%s condition on %q is missing its placeholder", c.Operator, c.Column)
	}
	b.WriteString(c.Operator)
	b.WriteString("(")
	b.WriteString(c.Column)
	b.WriteString(", ")
	b.WriteString(placeholder(c.Param))
	b.WriteString(")")
	return nil
}

func writeColCompare(b *strings.Builder, c query.Condition) error {
	switch c.Operator {
	case "=", "!=", "<", ">", "<=", ">=":
	default:
		return sqlerror.Internalf("unsupported column comparison operator %q", c.Operator)
	}
	if c.Column2 == "" {
		return sqlerror.Internalf("column comparison on %q is missing its right-hand column", c.Column)
	}
	b.WriteString(c.Column)
	b.WriteString(" ")
	b.WriteString(c.Operator)
	b.WriteString(" ")
	b.WriteString(c.Column2)
	return nil
}

func writeNullCheck(b *strings.Builder, c query.Condition) error {
	if c.Operator != "IS NULL" && c.Operator != "IS NOT NULL" {
		return sqlerror.Internalf("unsupported null-check operator %q", c.Operator)
	}
	b.WriteString(c.Column)
	b.WriteString(" ")
	b.WriteString(c.Operator)
	return nil
}
