package compile

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/spanq/spanq/proptest"
	"github.com/spanq/spanq/src/query"
)

var placeholderRe = regexp.MustCompile(`@[A-Za-z_][A-Za-z0-9_]*`)

func genValue(g *proptest.Generator) any {
	switch g.Intn(5) {
	case 0:
		return g.IdentifierLower(8)
	case 1:
		return int64(g.Intn(1000))
	case 2:
		return g.Bool()
	case 3:
		return g.Float64()
	default:
		return nil
	}
}

func genLeaf(g *proptest.Generator, w *query.WhereBuilder) *query.WhereBuilder {
	col := g.IdentifierLower(8)
	switch g.Intn(9) {
	case 0:
		return w.Eq(col, genValue(g))
	case 1:
		return w.Ne(col, genValue(g))
	case 2:
		return w.Gt(col, genValue(g))
	case 3:
		return w.Le(col, genValue(g))
	case 4:
		return w.In(col, proptest.SliceN(g, 0, 4, genValue))
	case 5:
		return w.InUnnest(col, proptest.SliceN(g, 0, 3, genValue))
	case 6:
		return w.Like(col, "%"+g.IdentifierLower(4)+"%")
	case 7:
		return w.StartsWith(col, g.IdentifierLower(4))
	default:
		return w.IsNull(col)
	}
}

// genWhere grows a random condition tree of bounded depth onto w.
func genWhere(g *proptest.Generator, w *query.WhereBuilder, depth int) *query.WhereBuilder {
	n := g.IntRange(1, 4)
	for i := 0; i < n; i++ {
		if depth > 0 && g.BoolWithProb(0.3) {
			d := depth - 1
			nested := func(sub *query.WhereBuilder) *query.WhereBuilder {
				return genWhere(g, sub, d)
			}
			if g.Bool() {
				w = w.Or(nested)
			} else {
				w = w.And(nested)
			}
		} else {
			w = genLeaf(g, w)
		}
	}
	return w
}

func balanced(sql string) bool {
	depth := 0
	for _, r := range sql {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

func TestWhere_Properties(t *testing.T) {
	proptest.QuickCheck(t, "parentheses stay balanced", func(g *proptest.Generator) bool {
		stmt, err := Where(genWhere(g, query.NewWhere(), 2))
		if err != nil {
			return false
		}
		return stmt.SQL != "" && balanced(stmt.SQL)
	})

	proptest.QuickCheck(t, "placeholders and parameters agree", func(g *proptest.Generator) bool {
		stmt, err := Where(genWhere(g, query.NewWhere(), 2))
		if err != nil {
			return false
		}
		referenced := make(map[string]struct{})
		for _, tok := range placeholderRe.FindAllString(stmt.SQL, -1) {
			name := tok[1:]
			if _, ok := stmt.Params[name]; !ok {
				return false
			}
			referenced[name] = struct{}{}
		}
		return len(referenced) == len(stmt.Params)
	})

	proptest.QuickCheck(t, "compilation is repeatable", func(g *proptest.Generator) bool {
		b := genWhere(g, query.NewWhere(), 2)
		first, err1 := Where(b)
		second, err2 := Where(b)
		if err1 != nil || err2 != nil {
			return false
		}
		return first.SQL == second.SQL && reflect.DeepEqual(first.Params, second.Params)
	})

	proptest.QuickCheck(t, "extending a branch never changes the base", func(g *proptest.Generator) bool {
		base := genWhere(g, query.NewWhere(), 1)
		before, err := Where(base)
		if err != nil {
			return false
		}
		if _, err := Where(genWhere(g, base, 1)); err != nil {
			return false
		}
		after, err := Where(base)
		if err != nil {
			return false
		}
		return before.SQL == after.SQL && reflect.DeepEqual(before.Params, after.Params)
	})
}

func TestSelect_Properties(t *testing.T) {
	proptest.QuickCheck(t, "statements compile with agreeing placeholders", func(g *proptest.Generator) bool {
		cols := g.UniqueIdentifiers(g.IntRange(1, 4), 8)
		if len(cols) == 0 {
			return true
		}
		b := query.From("t_" + g.IdentifierLower(6)).Select(cols...)
		b = b.Where(func(w *query.WhereBuilder) *query.WhereBuilder {
			return genWhere(g, w, 2)
		})
		if g.Bool() {
			b = b.OrderBy(proptest.Pick(g, cols))
		}
		if g.Bool() {
			b = b.Limit(int64(g.IntRange(1, 100)))
		}
		stmt, err := Select(b)
		if err != nil {
			return false
		}
		if !balanced(stmt.SQL) {
			return false
		}
		referenced := make(map[string]struct{})
		for _, tok := range placeholderRe.FindAllString(stmt.SQL, -1) {
			name := tok[1:]
			if _, ok := stmt.Params[name]; !ok {
				return false
			}
			referenced[name] = struct{}{}
		}
		return len(referenced) == len(stmt.Params)
	})
}
