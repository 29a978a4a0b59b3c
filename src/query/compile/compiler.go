package compile

import (
	"strings"

	"github.com/spanq/spanq/sqlerror"
	"github.com/spanq/spanq/src/query"
)

// Where compiles a standalone filter builder into a bare condition fragment
// plus its swept parameter map. The fragment slots into a WHERE clause, but
// carries no keyword.
func Where(b *query.WhereBuilder) (Statement, error) {
	if err := b.Err(); err != nil {
		return Statement{}, err
	}
	root := b.Cond()
	var sb strings.Builder
	if err := writeCond(&sb, root); err != nil {
		return Statement{}, err
	}
	ref := make(map[string]struct{})
	referencedNames(root, ref)
	return Statement{SQL: sb.String(), Params: sweepParams(b.Params(), ref)}, nil
}

// Select compiles a select builder into a full statement. A sticky builder
// error surfaces here before any validation or generation runs.
func Select(b *query.SelectBuilder) (Statement, error) {
	if err := b.Err(); err != nil {
		return Statement{}, err
	}
	t := b.Tree()
	return Compile(&t)
}

// Compile validates and serializes a query tree. Callers normally go through
// Select; Compile is the entry point for hand-built trees. Clause order is
// fixed: SELECT, FROM, joins, WHERE, GROUP BY, HAVING, ORDER BY, LIMIT,
// OFFSET.
func Compile(t *query.Tree) (Statement, error) {
	if err := ValidateTree(t); err != nil {
		return Statement{}, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if t.Distinct {
		sb.WriteString("DISTINCT ")
	}
	for i, col := range t.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		if err := writeSelectExpr(&sb, col); err != nil {
			return Statement{}, err
		}
	}

	sb.WriteString(" FROM ")
	writeTable(&sb, *t.From)

	for _, j := range t.Joins {
		if err := writeJoin(&sb, j); err != nil {
			return Statement{}, err
		}
	}

	if t.Where != nil {
		sb.WriteString(" WHERE ")
		if err := writeCond(&sb, *t.Where); err != nil {
			return Statement{}, err
		}
	}

	if len(t.GroupBy) > 0 || len(t.GroupByExprs) > 0 {
		sb.WriteString(" GROUP BY ")
		for i, c := range t.GroupBy {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(c)
		}
		for i, e := range t.GroupByExprs {
			if i > 0 || len(t.GroupBy) > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e)
		}
	}

	if t.Having != nil {
		sb.WriteString(" HAVING ")
		if err := writeCond(&sb, *t.Having); err != nil {
			return Statement{}, err
		}
	}

	if len(t.OrderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		for i, key := range t.OrderBy {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(key.Column)
			if key.Desc {
				sb.WriteString(" DESC")
			}
		}
	}

	if t.LimitParam != "" {
		sb.WriteString(" LIMIT ")
		sb.WriteString(placeholder(t.LimitParam))
	}
	if t.OffsetParam != "" {
		sb.WriteString(" OFFSET ")
		sb.WriteString(placeholder(t.OffsetParam))
	}

	return Statement{
		SQL:    sb.String(),
		Params: sweepParams(t.Params, treeReferencedNames(t)),
	}, nil
}

func writeSelectExpr(b *strings.Builder, col query.SelectExpr) error {
	switch col.Kind {
	case query.SelectColumn:
		b.WriteString(col.Name)
	case query.SelectExpression:
		b.WriteString(col.Text)
	case query.SelectAggregate:
		switch col.Fn {
		case query.AggCount, query.AggSum, query.AggAvg, query.AggMin, query.AggMax:
		default:
			return sqlerror.Internalf("unknown aggregate function %q", col.Fn)
		}
		b.WriteString(string(col.Fn))
		b.WriteString("(")
		if col.Arg == "" {
			b.WriteString("*")
		} else {
			b.WriteString(col.Arg)
		}
		b.WriteString(")")
	default:
		return sqlerror.Internalf("unknown select column kind %q", col.Kind)
	}
	if col.Alias != "" {
		b.WriteString(" AS ")
		b.WriteString(col.Alias)
	}
	return nil
}

func writeTable(b *strings.Builder, ref query.TableRef) {
	b.WriteString(ref.Name)
	if ref.Alias != "" {
		b.WriteString(" AS ")
		b.WriteString(ref.Alias)
	}
}

// writeJoin emits one join clause. CROSS and NATURAL joins never take an ON;
// for the other kinds an empty condition group serializes to ON TRUE through
// the usual group-identity rule.
func writeJoin(b *strings.Builder, j query.JoinClause) error {
	b.WriteString(" ")
	b.WriteString(string(j.Kind))
	b.WriteString(" JOIN ")
	writeTable(b, j.Table)
	if j.Kind == query.CrossJoin || j.Kind == query.NaturalJoin {
		return nil
	}
	b.WriteString(" ON ")
	return writeCond(b, j.On)
}
