package query

import (
	"github.com/spanq/spanq/sqlerror"
	"github.com/spanq/spanq/sqlnames"
)

// SelectBuilder accumulates a query tree field by field. Like WhereBuilder
// it is persistent: every method returns a new builder, and nested filter
// builders (WHERE, HAVING, join conditions) are seeded with the current
// parameter registry so placeholder numbering never collides across
// clauses.
type SelectBuilder struct {
	tree Tree
	err  error
}

// From starts a SELECT from the given table. The table name is validated
// before it is admitted; an invalid name poisons the whole chain and
// surfaces when the builder is compiled.
func From(table string) *SelectBuilder {
	return FromAs(table, "")
}

// FromAs starts a SELECT from the given table under an alias.
func FromAs(table, alias string) *SelectBuilder {
	ref, err := newTableRef(table, alias)
	if err != nil {
		return &SelectBuilder{err: err}
	}
	return &SelectBuilder{tree: Tree{From: &ref}}
}

func newTableRef(table, alias string) (TableRef, error) {
	name, err := sqlnames.Check(table)
	if err != nil {
		return TableRef{}, sqlerror.Wrap(sqlerror.KindInvalidName, "invalid table name", err)
	}
	ref := TableRef{Name: name}
	if alias != "" {
		a, err := sqlnames.Check(alias)
		if err != nil {
			return TableRef{}, sqlerror.Wrap(sqlerror.KindInvalidName, "invalid table alias", err)
		}
		ref.Alias = a
	}
	return ref, nil
}

// Tree returns a snapshot of the accumulated query tree. Shared condition
// nodes are immutable, so only the top-level collections are copied.
func (b *SelectBuilder) Tree() Tree {
	t := b.tree
	if t.From != nil {
		ref := *t.From
		t.From = &ref
	}
	t.Columns = cloneSlice(t.Columns)
	t.Joins = cloneSlice(t.Joins)
	t.GroupBy = cloneSlice(t.GroupBy)
	t.GroupByExprs = cloneSlice(t.GroupByExprs)
	t.OrderBy = cloneSlice(t.OrderBy)
	if t.Where != nil {
		g := Group{Op: t.Where.Op, Nodes: cloneSlice(t.Where.Nodes)}
		t.Where = &g
	}
	if t.Having != nil {
		g := Group{Op: t.Having.Op, Nodes: cloneSlice(t.Having.Nodes)}
		t.Having = &g
	}
	return t
}

// Err returns the first error recorded by any call in the chain.
func (b *SelectBuilder) Err() error { return b.err }

func (b *SelectBuilder) next(t Tree) *SelectBuilder {
	return &SelectBuilder{tree: t}
}

func (b *SelectBuilder) fail(err error) *SelectBuilder {
	return &SelectBuilder{tree: b.tree, err: err}
}

// Distinct marks the SELECT as DISTINCT.
func (b *SelectBuilder) Distinct() *SelectBuilder {
	if b.err != nil {
		return b
	}
	t := b.tree
	t.Distinct = true
	return b.next(t)
}

// Select adds plain output columns.
func (b *SelectBuilder) Select(cols ...string) *SelectBuilder {
	if b.err != nil {
		return b
	}
	t := b.tree
	for _, c := range cols {
		t.Columns = appendCopy(t.Columns, SelectExpr{Kind: SelectColumn, Name: c})
	}
	return b.next(t)
}

// SelectAs adds one output column under an alias.
func (b *SelectBuilder) SelectAs(col, alias string) *SelectBuilder {
	return b.addColumn(SelectExpr{Kind: SelectColumn, Name: col}, alias)
}

// SelectExpr adds a raw expression output column.
func (b *SelectBuilder) SelectExpr(text string) *SelectBuilder {
	return b.addColumn(SelectExpr{Kind: SelectExpression, Text: text}, "")
}

// SelectExprAs adds a raw expression output column under an alias.
func (b *SelectBuilder) SelectExprAs(text, alias string) *SelectBuilder {
	return b.addColumn(SelectExpr{Kind: SelectExpression, Text: text}, alias)
}

// SelectAgg adds an aggregate output column, e.g. SUM(amount).
func (b *SelectBuilder) SelectAgg(fn AggFunc, col string) *SelectBuilder {
	return b.addColumn(SelectExpr{Kind: SelectAggregate, Fn: fn, Arg: col}, "")
}

// SelectAggAs adds an aggregate output column under an alias.
func (b *SelectBuilder) SelectAggAs(fn AggFunc, col, alias string) *SelectBuilder {
	return b.addColumn(SelectExpr{Kind: SelectAggregate, Fn: fn, Arg: col}, alias)
}

// SelectCount adds COUNT(*).
func (b *SelectBuilder) SelectCount() *SelectBuilder {
	return b.addColumn(SelectExpr{Kind: SelectAggregate, Fn: AggCount}, "")
}

// SelectCountAs adds COUNT(*) under an alias.
func (b *SelectBuilder) SelectCountAs(alias string) *SelectBuilder {
	return b.addColumn(SelectExpr{Kind: SelectAggregate, Fn: AggCount}, alias)
}

func (b *SelectBuilder) addColumn(col SelectExpr, alias string) *SelectBuilder {
	if b.err != nil {
		return b
	}
	if alias != "" {
		a, err := sqlnames.Check(alias)
		if err != nil {
			return b.fail(sqlerror.Wrap(sqlerror.KindInvalidName, "invalid column alias", err))
		}
		col.Alias = a
	}
	t := b.tree
	t.Columns = appendCopy(t.Columns, col)
	return b.next(t)
}

// WithSchema attaches a declared column schema to the FROM table.
func (b *SelectBuilder) WithSchema(s *Schema) *SelectBuilder {
	if b.err != nil || b.tree.From == nil {
		return b
	}
	t := b.tree
	ref := *t.From
	ref.Schema = s
	t.From = &ref
	return b.next(t)
}

// Join starts an INNER JOIN; complete it with On.
func (b *SelectBuilder) Join(table string) *JoinBuilder {
	return b.join(InnerJoin, table)
}

// LeftJoin starts a LEFT JOIN; complete it with On.
func (b *SelectBuilder) LeftJoin(table string) *JoinBuilder {
	return b.join(LeftJoin, table)
}

// RightJoin starts a RIGHT JOIN; complete it with On.
func (b *SelectBuilder) RightJoin(table string) *JoinBuilder {
	return b.join(RightJoin, table)
}

// FullJoin starts a FULL JOIN; complete it with On.
func (b *SelectBuilder) FullJoin(table string) *JoinBuilder {
	return b.join(FullJoin, table)
}

func (b *SelectBuilder) join(kind JoinKind, table string) *JoinBuilder {
	if b.err != nil {
		return &JoinBuilder{parent: b, err: b.err}
	}
	ref, err := newTableRef(table, "")
	if err != nil {
		return &JoinBuilder{parent: b, err: err}
	}
	return &JoinBuilder{parent: b, kind: kind, table: ref}
}

// CrossJoin adds a CROSS JOIN. Cross joins carry no ON condition.
func (b *SelectBuilder) CrossJoin(table string) *SelectBuilder {
	return b.joinBare(CrossJoin, table)
}

// NaturalJoin adds a NATURAL JOIN. Natural joins carry no ON condition.
func (b *SelectBuilder) NaturalJoin(table string) *SelectBuilder {
	return b.joinBare(NaturalJoin, table)
}

func (b *SelectBuilder) joinBare(kind JoinKind, table string) *SelectBuilder {
	if b.err != nil {
		return b
	}
	ref, err := newTableRef(table, "")
	if err != nil {
		return b.fail(err)
	}
	t := b.tree
	t.Joins = appendCopy(t.Joins, JoinClause{Kind: kind, Table: ref, On: Group{Op: OpAnd}})
	return b.next(t)
}

// Where grows the WHERE condition through a nested filter builder seeded
// with the current registry. Repeated calls append to the same top-level AND
// list.
func (b *SelectBuilder) Where(fn func(*WhereBuilder) *WhereBuilder) *SelectBuilder {
	if b.err != nil {
		return b
	}
	w := runFilter(fn, b.tree.Params)
	if w.Err() != nil {
		return b.fail(w.Err())
	}
	t := b.tree
	t.Where = mergeRoot(t.Where, w.Cond())
	t.Params = t.Params.Merge(w.Params())
	return b.next(t)
}

// Having grows the HAVING condition; it requires a GROUP BY at build time.
func (b *SelectBuilder) Having(fn func(*WhereBuilder) *WhereBuilder) *SelectBuilder {
	if b.err != nil {
		return b
	}
	w := runFilter(fn, b.tree.Params)
	if w.Err() != nil {
		return b.fail(w.Err())
	}
	t := b.tree
	t.Having = mergeRoot(t.Having, w.Cond())
	t.Params = t.Params.Merge(w.Params())
	return b.next(t)
}

func runFilter(fn func(*WhereBuilder) *WhereBuilder, p Params) *WhereBuilder {
	sub := seeded(p)
	if fn == nil {
		return sub
	}
	if w := fn(sub); w != nil {
		return w
	}
	return sub
}

func mergeRoot(dst *Group, g Group) *Group {
	if dst == nil {
		return &g
	}
	merged := Group{Op: OpAnd, Nodes: make([]Cond, 0, len(dst.Nodes)+len(g.Nodes))}
	merged.Nodes = append(merged.Nodes, dst.Nodes...)
	merged.Nodes = append(merged.Nodes, g.Nodes...)
	return &merged
}

// GroupBy adds grouping columns.
func (b *SelectBuilder) GroupBy(cols ...string) *SelectBuilder {
	if b.err != nil {
		return b
	}
	t := b.tree
	for _, c := range cols {
		t.GroupBy = appendCopy(t.GroupBy, c)
	}
	return b.next(t)
}

// GroupByExpr adds a grouping expression.
func (b *SelectBuilder) GroupByExpr(text string) *SelectBuilder {
	if b.err != nil {
		return b
	}
	t := b.tree
	t.GroupByExprs = appendCopy(t.GroupByExprs, text)
	return b.next(t)
}

// OrderBy adds an ascending order key.
func (b *SelectBuilder) OrderBy(col string) *SelectBuilder {
	return b.order(col, false)
}

// OrderByDesc adds a descending order key.
func (b *SelectBuilder) OrderByDesc(col string) *SelectBuilder {
	return b.order(col, true)
}

func (b *SelectBuilder) order(col string, desc bool) *SelectBuilder {
	if b.err != nil {
		return b
	}
	t := b.tree
	t.OrderBy = appendCopy(t.OrderBy, OrderKey{Column: col, Desc: desc})
	return b.next(t)
}

// Limit sets LIMIT, registering n as an ordinary parameter. n must be
// positive.
func (b *SelectBuilder) Limit(n int64) *SelectBuilder {
	if b.err != nil {
		return b
	}
	if n <= 0 {
		return b.fail(sqlerror.InvalidLimitf("limit must be positive, got %d", n))
	}
	t := b.tree
	t.Params, t.LimitParam = t.Params.Insert(n)
	return b.next(t)
}

// Offset sets OFFSET, registering n as an ordinary parameter. n must not be
// negative.
func (b *SelectBuilder) Offset(n int64) *SelectBuilder {
	if b.err != nil {
		return b
	}
	if n < 0 {
		return b.fail(sqlerror.InvalidOffsetf("offset must not be negative, got %d", n))
	}
	t := b.tree
	t.Params, t.OffsetParam = t.Params.Insert(n)
	return b.next(t)
}

// JoinBuilder holds a pending join until On supplies its condition.
type JoinBuilder struct {
	parent *SelectBuilder
	kind   JoinKind
	table  TableRef
	err    error
}

// As sets an alias for the joined table.
func (j *JoinBuilder) As(alias string) *JoinBuilder {
	if j.err != nil {
		return j
	}
	a, err := sqlnames.Check(alias)
	if err != nil {
		return &JoinBuilder{
			parent: j.parent,
			err:    sqlerror.Wrap(sqlerror.KindInvalidName, "invalid join alias", err),
		}
	}
	table := j.table
	table.Alias = a
	return &JoinBuilder{parent: j.parent, kind: j.kind, table: table}
}

// WithSchema attaches a declared column schema to the joined table.
func (j *JoinBuilder) WithSchema(s *Schema) *JoinBuilder {
	if j.err != nil {
		return j
	}
	table := j.table
	table.Schema = s
	return &JoinBuilder{parent: j.parent, kind: j.kind, table: table}
}

// On supplies the join condition through a nested filter builder seeded with
// the parent's registry, and returns the select builder with the join
// appended.
func (j *JoinBuilder) On(fn func(*WhereBuilder) *WhereBuilder) *SelectBuilder {
	if j.err != nil {
		return &SelectBuilder{tree: j.parent.tree, err: j.err}
	}
	w := runFilter(fn, j.parent.tree.Params)
	if w.Err() != nil {
		return j.parent.fail(w.Err())
	}
	t := j.parent.tree
	t.Joins = appendCopy(t.Joins, JoinClause{Kind: j.kind, Table: j.table, On: w.Cond()})
	t.Params = t.Params.Merge(w.Params())
	return j.parent.next(t)
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
