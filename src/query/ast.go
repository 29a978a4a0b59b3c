// Package query defines the condition-tree and query-tree model for
// parameterized Spanner SELECT statements, together with the fluent builders
// that grow those trees. Builders are persistent values: every call returns
// a new builder sharing unchanged subtrees with the previous one, so callers
// may branch from any intermediate builder without interference.
//
// The package never emits SQL itself; serialization lives in the compile
// subpackage.
package query

// LogicOp combines the children of a condition group.
type LogicOp string

const (
	OpAnd LogicOp = "AND"
	OpOr  LogicOp = "OR"
)

// Cond is a node in a condition tree: either a single Condition leaf or a
// Group of nodes.
type Cond interface {
	isCond()
}

// CondKind identifies the shape of a condition leaf.
type CondKind string

const (
	// CondCompare is a binary comparison (=, !=, <, >, <=, >=).
	CondCompare CondKind = "compare"
	// CondIn is an IN/NOT IN list with one placeholder per element.
	CondIn CondKind = "in"
	// CondInUnnest is an IN/NOT IN over a single array placeholder.
	CondInUnnest CondKind = "in_unnest"
	// CondLike is a LIKE/NOT LIKE pattern match.
	CondLike CondKind = "like"
	// CondFunc is a function-call condition such as STARTS_WITH(col, @p).
	CondFunc CondKind = "func"
	// CondNull is a bare IS NULL / IS NOT NULL check.
	CondNull CondKind = "null"
	// CondCols compares two columns, as in join conditions. No parameter is
	// involved.
	CondCols CondKind = "cols"
)

// Condition is a leaf predicate. Exactly one of Value/Values is meaningful
// per kind; CondNull carries neither. A CondCompare with operator = or !=
// and no placeholder is rewritten to IS NULL / IS NOT NULL at generation
// time. Conditions are immutable once created.
type Condition struct {
	Kind     CondKind
	Column   string
	Operator string

	// Value and Param carry a single registered value and its placeholder
	// name (compare, like, func, and the UNNEST array form).
	Value any
	Param string

	// Values and ParamNames carry the ordered element list of an IN
	// condition and the placeholder name registered for each element.
	Values     []any
	ParamNames []string

	// Column2 is the right-hand column of a CondCols comparison.
	Column2 string
}

func (Condition) isCond() {}

// Group is an AND/OR combination of conditions and nested groups. A group
// with no children is the logical identity for its operator: TRUE for AND,
// FALSE for OR. Empty groups are valid intermediate states, not errors.
type Group struct {
	Op    LogicOp
	Nodes []Cond
}

func (Group) isCond() {}

// AggFunc names an aggregate select function.
type AggFunc string

const (
	AggCount AggFunc = "COUNT"
	AggSum   AggFunc = "SUM"
	AggAvg   AggFunc = "AVG"
	AggMin   AggFunc = "MIN"
	AggMax   AggFunc = "MAX"
)

// SelectKind tags the variant of an output column.
type SelectKind string

const (
	SelectColumn     SelectKind = "column"
	SelectExpression SelectKind = "expression"
	SelectAggregate  SelectKind = "aggregate"
)

// SelectExpr is one output column of a SELECT clause. Name is set for the
// column variant, Text for the expression variant, and Fn/Arg for the
// aggregate variant (an empty Arg means a star argument, as in COUNT(*)).
type SelectExpr struct {
	Kind  SelectKind
	Name  string
	Text  string
	Fn    AggFunc
	Arg   string
	Alias string
}

// JoinKind identifies the join type.
type JoinKind string

const (
	InnerJoin   JoinKind = "INNER"
	LeftJoin    JoinKind = "LEFT"
	RightJoin   JoinKind = "RIGHT"
	FullJoin    JoinKind = "FULL"
	CrossJoin   JoinKind = "CROSS"
	NaturalJoin JoinKind = "NATURAL"
)

// TableRef references a table, optionally with an alias and a declared
// column schema. The schema never influences condition generation; it is
// only merged across joins to optionally reject unknown column names.
type TableRef struct {
	Name   string
	Alias  string
	Schema *Schema
}

// JoinClause represents one JOIN. CROSS and NATURAL joins carry the empty
// AND identity as their condition, which is never emitted.
type JoinClause struct {
	Kind  JoinKind
	Table TableRef
	On    Group
}

// OrderKey is one ORDER BY column with its direction.
type OrderKey struct {
	Column string
	Desc   bool
}

// Tree is the full structured representation of a SELECT statement prior to
// serialization. LimitParam and OffsetParam hold the placeholder names of
// the registered pagination values; an empty name means the clause is
// absent.
type Tree struct {
	Columns      []SelectExpr
	Distinct     bool
	From         *TableRef
	Joins        []JoinClause
	Where        *Group
	GroupBy      []string
	GroupByExprs []string
	Having       *Group
	OrderBy      []OrderKey
	LimitParam   string
	OffsetParam  string
	Params       Params
}

// MergedSchema returns the union of the column schemas of the FROM table and
// every joined table. It returns nil unless every table reference carries a
// schema, since a partial union would falsely reject columns of the
// undeclared tables.
func (t *Tree) MergedSchema() *Schema {
	if t.From == nil || t.From.Schema == nil {
		return nil
	}
	merged := t.From.Schema
	for _, j := range t.Joins {
		if j.Table.Schema == nil {
			return nil
		}
		merged = merged.Merge(j.Table.Schema)
	}
	return merged
}

// appendCopy returns a new slice with v appended, never aliasing s's backing
// array. Builder persistence depends on this.
func appendCopy[T any](s []T, v T) []T {
	out := make([]T, len(s)+1)
	copy(out, s)
	out[len(s)] = v
	return out
}
