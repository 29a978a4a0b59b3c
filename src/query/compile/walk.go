package compile

import "github.com/spanq/spanq/src/query"

// WalkCond visits every condition leaf under node in depth-first order. The
// visitor returns false to abort the walk; WalkCond reports whether the walk
// ran to completion. Nil children are skipped; generation rejects them
// separately.
func WalkCond(node query.Cond, visit func(query.Condition) bool) bool {
	switch n := node.(type) {
	case query.Condition:
		return visit(n)
	case query.Group:
		for _, child := range n.Nodes {
			if child == nil {
				continue
			}
			if !WalkCond(child, visit) {
				return false
			}
		}
	}
	return true
}

// referencedNames adds every placeholder name referenced by leaves under node
// to the given set.
func referencedNames(node query.Cond, into map[string]struct{}) {
	WalkCond(node, func(c query.Condition) bool {
		if c.Param != "" {
			into[c.Param] = struct{}{}
		}
		for _, name := range c.ParamNames {
			if name != "" {
				into[name] = struct{}{}
			}
		}
		return true
	})
}

// treeReferencedNames collects every placeholder name a compiled statement
// for the tree will reference: join conditions, WHERE, HAVING, and the
// pagination placeholders.
func treeReferencedNames(t *query.Tree) map[string]struct{} {
	ref := make(map[string]struct{})
	for _, j := range t.Joins {
		referencedNames(j.On, ref)
	}
	if t.Where != nil {
		referencedNames(*t.Where, ref)
	}
	if t.Having != nil {
		referencedNames(*t.Having, ref)
	}
	if t.LimitParam != "" {
		ref[t.LimitParam] = struct{}{}
	}
	if t.OffsetParam != "" {
		ref[t.OffsetParam] = struct{}{}
	}
	return ref
}

// sweepParams intersects the registry with the referenced name set, dropping
// entries the emitted SQL never mentions. Values that were registered and
// later edited out of the tree (or deduplicated away) do not leak into the
// final statement.
func sweepParams(p query.Params, referenced map[string]struct{}) map[string]any {
	out := make(map[string]any, len(referenced))
	for _, name := range p.Names() {
		if _, ok := referenced[name]; ok {
			v, _ := p.Value(name)
			out[name] = v
		}
	}
	return out
}
