package query

// WhereBuilder accumulates a condition tree and its parameter registry, one
// call at a time. The root group is always AND; combinators introduce nested
// groups as single leaves of it.
//
// WhereBuilder is persistent: every method returns a new builder and leaves
// the receiver untouched. A rejected value makes the returned builder
// sticky-failed; subsequent calls are no-ops and the error surfaces when the
// builder is compiled.
type WhereBuilder struct {
	root   Group
	params Params
	err    error
}

// NewWhere returns an empty filter builder.
func NewWhere() *WhereBuilder {
	return &WhereBuilder{root: Group{Op: OpAnd}}
}

// seeded returns an empty builder sharing the given registry snapshot, so
// placeholder numbering stays monotonic across nested builders.
func seeded(p Params) *WhereBuilder {
	return &WhereBuilder{root: Group{Op: OpAnd}, params: p}
}

// Cond returns the accumulated condition tree.
func (b *WhereBuilder) Cond() Group {
	nodes := make([]Cond, len(b.root.Nodes))
	copy(nodes, b.root.Nodes)
	return Group{Op: b.root.Op, Nodes: nodes}
}

// Params returns the accumulated parameter registry.
func (b *WhereBuilder) Params() Params { return b.params }

// Err returns the first error recorded by any call in the chain.
func (b *WhereBuilder) Err() error { return b.err }

func (b *WhereBuilder) append(node Cond, params Params) *WhereBuilder {
	return &WhereBuilder{
		root:   Group{Op: b.root.Op, Nodes: appendCopy(b.root.Nodes, node)},
		params: params,
	}
}

func (b *WhereBuilder) fail(err error) *WhereBuilder {
	return &WhereBuilder{root: b.root, params: b.params, err: err}
}

// Eq appends column = value. A nil value becomes IS NULL at generation time
// and registers no parameter.
func (b *WhereBuilder) Eq(column string, v any) *WhereBuilder {
	return b.compare(column, "=", v)
}

// Ne appends column != value. A nil value becomes IS NOT NULL at generation
// time and registers no parameter.
func (b *WhereBuilder) Ne(column string, v any) *WhereBuilder {
	return b.compare(column, "!=", v)
}

// Lt appends column < value.
func (b *WhereBuilder) Lt(column string, v any) *WhereBuilder {
	return b.compare(column, "<", v)
}

// Gt appends column > value.
func (b *WhereBuilder) Gt(column string, v any) *WhereBuilder {
	return b.compare(column, ">", v)
}

// Le appends column <= value.
func (b *WhereBuilder) Le(column string, v any) *WhereBuilder {
	return b.compare(column, "<=", v)
}

// Ge appends column >= value.
func (b *WhereBuilder) Ge(column string, v any) *WhereBuilder {
	return b.compare(column, ">=", v)
}

func (b *WhereBuilder) compare(column, op string, v any) *WhereBuilder {
	if b.err != nil {
		return b
	}
	// Equality against nil is rewritten to IS NULL / IS NOT NULL, so no
	// parameter is registered. For the ordering operators nil stays a real
	// parameter: Spanner applies its own null comparison semantics.
	if v == nil && (op == "=" || op == "!=") {
		return b.append(Condition{Kind: CondCompare, Column: column, Operator: op}, b.params)
	}
	if err := CheckValue(v); err != nil {
		return b.fail(err)
	}
	params, name := b.params.Insert(v)
	return b.append(Condition{
		Kind:     CondCompare,
		Column:   column,
		Operator: op,
		Value:    v,
		Param:    name,
	}, params)
}

// In appends column IN (...) with one placeholder per element. An empty list
// generates the literal FALSE and registers no parameters.
func (b *WhereBuilder) In(column string, vals []any) *WhereBuilder {
	return b.inList(column, "IN", vals)
}

// NotIn appends column NOT IN (...). An empty list generates the literal
// TRUE and registers no parameters.
func (b *WhereBuilder) NotIn(column string, vals []any) *WhereBuilder {
	return b.inList(column, "NOT IN", vals)
}

func (b *WhereBuilder) inList(column, op string, vals []any) *WhereBuilder {
	if b.err != nil {
		return b
	}
	if len(vals) == 0 {
		return b.append(Condition{Kind: CondIn, Column: column, Operator: op}, b.params)
	}
	params := b.params
	names := make([]string, len(vals))
	elems := make([]any, len(vals))
	for i, v := range vals {
		if err := CheckValue(v); err != nil {
			return b.fail(err)
		}
		params, names[i] = params.Insert(v)
		elems[i] = v
	}
	return b.append(Condition{
		Kind:       CondIn,
		Column:     column,
		Operator:   op,
		Values:     elems,
		ParamNames: names,
	}, params)
}

// InUnnest appends column IN UNNEST(@p), passing the whole list as a single
// array parameter. An empty list generates the literal FALSE.
func (b *WhereBuilder) InUnnest(column string, vals []any) *WhereBuilder {
	return b.inUnnest(column, "IN", vals)
}

// NotInUnnest appends column NOT IN UNNEST(@p). An empty list generates the
// literal TRUE.
func (b *WhereBuilder) NotInUnnest(column string, vals []any) *WhereBuilder {
	return b.inUnnest(column, "NOT IN", vals)
}

func (b *WhereBuilder) inUnnest(column, op string, vals []any) *WhereBuilder {
	if b.err != nil {
		return b
	}
	if len(vals) == 0 {
		return b.append(Condition{Kind: CondInUnnest, Column: column, Operator: op}, b.params)
	}
	elems := make([]any, len(vals))
	copy(elems, vals)
	if err := CheckValue(elems); err != nil {
		return b.fail(err)
	}
	params, name := b.params.Insert(elems)
	return b.append(Condition{
		Kind:     CondInUnnest,
		Column:   column,
		Operator: op,
		Value:    elems,
		Param:    name,
	}, params)
}

// Like appends column LIKE pattern.
func (b *WhereBuilder) Like(column, pattern string) *WhereBuilder {
	return b.pattern(CondLike, column, "LIKE", pattern)
}

// NotLike appends column NOT LIKE pattern.
func (b *WhereBuilder) NotLike(column, pattern string) *WhereBuilder {
	return b.pattern(CondLike, column, "NOT LIKE", pattern)
}

// StartsWith appends STARTS_WITH(column, @p). Spanner exposes a dedicated
// function, so no LIKE pattern is synthesized.
func (b *WhereBuilder) StartsWith(column, prefix string) *WhereBuilder {
	return b.pattern(CondFunc, column, "STARTS_WITH", prefix)
}

// EndsWith appends ENDS_WITH(column, @p).
func (b *WhereBuilder) EndsWith(column, suffix string) *WhereBuilder {
	return b.pattern(CondFunc, column, "ENDS_WITH", suffix)
}

func (b *WhereBuilder) pattern(kind CondKind, column, op, s string) *WhereBuilder {
	if b.err != nil {
		return b
	}
	params, name := b.params.Insert(s)
	return b.append(Condition{
		Kind:     kind,
		Column:   column,
		Operator: op,
		Value:    s,
		Param:    name,
	}, params)
}

// EqCol appends left = right comparing two columns, the usual shape of a
// join condition. No parameter is registered.
func (b *WhereBuilder) EqCol(left, right string) *WhereBuilder {
	return b.compareCols(left, "=", right)
}

// NeCol appends left != right comparing two columns.
func (b *WhereBuilder) NeCol(left, right string) *WhereBuilder {
	return b.compareCols(left, "!=", right)
}

func (b *WhereBuilder) compareCols(left, op, right string) *WhereBuilder {
	if b.err != nil {
		return b
	}
	return b.append(Condition{
		Kind:     CondCols,
		Column:   left,
		Operator: op,
		Column2:  right,
	}, b.params)
}

// IsNull appends column IS NULL. No parameter is registered.
func (b *WhereBuilder) IsNull(column string) *WhereBuilder {
	return b.nullCheck(column, "IS NULL")
}

// IsNotNull appends column IS NOT NULL. No parameter is registered.
func (b *WhereBuilder) IsNotNull(column string) *WhereBuilder {
	return b.nullCheck(column, "IS NOT NULL")
}

func (b *WhereBuilder) nullCheck(column, op string) *WhereBuilder {
	if b.err != nil {
		return b
	}
	return b.append(Condition{Kind: CondNull, Column: column, Operator: op}, b.params)
}

// And runs each function against a fresh builder seeded with the current
// registry, concatenates the resulting condition lists into one AND group,
// and appends that group as a single leaf. With no functions the builder is
// returned unchanged.
func (b *WhereBuilder) And(fns ...func(*WhereBuilder) *WhereBuilder) *WhereBuilder {
	return b.combine(OpAnd, fns)
}

// Or is And with the OR operator on the new group.
func (b *WhereBuilder) Or(fns ...func(*WhereBuilder) *WhereBuilder) *WhereBuilder {
	return b.combine(OpOr, fns)
}

func (b *WhereBuilder) combine(op LogicOp, fns []func(*WhereBuilder) *WhereBuilder) *WhereBuilder {
	if b.err != nil || len(fns) == 0 {
		return b
	}
	params := b.params
	var nodes []Cond
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		sub := fn(seeded(params))
		if sub == nil {
			continue
		}
		if sub.err != nil {
			return b.fail(sub.err)
		}
		nodes = append(nodes, sub.root.Nodes...)
		params = sub.params
	}
	return b.append(Group{Op: op, Nodes: nodes}, params)
}
