package compile

import (
	"errors"
	"testing"

	"github.com/spanq/spanq/sqlerror"
	"github.com/spanq/spanq/src/query"
)

func wantKind(t *testing.T, err error, kind sqlerror.Kind) {
	t.Helper()
	if !sqlerror.Is(err, kind) {
		t.Fatalf("error = %v (kind %q), want kind %q", err, sqlerror.KindOf(err), kind)
	}
}

func TestValidate_EmptySelect(t *testing.T) {
	_, err := Select(query.From("users"))
	wantKind(t, err, sqlerror.KindEmptySelect)
}

func TestValidate_DuplicateAlias(t *testing.T) {
	_, err := Select(query.From("users").
		SelectAs("id", "x").
		SelectAs("email", "x"))
	wantKind(t, err, sqlerror.KindDuplicateAlias)
}

func TestValidate_HavingWithoutGroupBy(t *testing.T) {
	_, err := Select(query.From("users").
		Select("id").
		Having(func(w *query.WhereBuilder) *query.WhereBuilder { return w.Gt("COUNT(*)", int64(1)) }))
	wantKind(t, err, sqlerror.KindHavingWithoutGroupBy)
}

func TestValidate_UngroupedColumn(t *testing.T) {
	t.Run("plain column", func(t *testing.T) {
		_, err := Select(query.From("users").
			Select("name").
			SelectCount())
		wantKind(t, err, sqlerror.KindUngroupedColumn)
	})
	t.Run("expression", func(t *testing.T) {
		_, err := Select(query.From("users").
			SelectExpr("LOWER(name)").
			SelectCount().
			GroupBy("name"))
		wantKind(t, err, sqlerror.KindUngroupedColumn)
	})
	t.Run("grouped passes", func(t *testing.T) {
		stmt, err := Select(query.From("users").
			Select("name").
			SelectCount().
			GroupBy("name"))
		if err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		want := "SELECT name, COUNT(*) FROM users GROUP BY name"
		if stmt.SQL != want {
			t.Errorf("SQL = %q, want %q", stmt.SQL, want)
		}
	})
	t.Run("no aggregates means no grouping rule", func(t *testing.T) {
		if _, err := Select(query.From("users").Select("name", "email")); err != nil {
			t.Errorf("Select() error = %v, want nil", err)
		}
	})
}

func TestValidate_UnknownColumnWithSchemas(t *testing.T) {
	users := query.NewSchema(map[string]query.TypeHint{"id": query.HintInt64, "name": query.HintString})

	t.Run("unknown bare column", func(t *testing.T) {
		_, err := Select(query.From("users").WithSchema(users).Select("nope"))
		wantKind(t, err, sqlerror.KindUnknownColumn)
	})
	t.Run("declared column passes", func(t *testing.T) {
		if _, err := Select(query.From("users").WithSchema(users).Select("id", "name")); err != nil {
			t.Errorf("Select() error = %v, want nil", err)
		}
	})
	t.Run("qualified names are not checked", func(t *testing.T) {
		if _, err := Select(query.From("users").WithSchema(users).Select("u.whatever")); err != nil {
			t.Errorf("Select() error = %v, want nil", err)
		}
	})
	t.Run("no check without full schema coverage", func(t *testing.T) {
		b := query.From("users").WithSchema(users).
			Select("nope").
			Join("orders").
			On(func(w *query.WhereBuilder) *query.WhereBuilder {
				return w.EqCol("orders.user_id", "users.id")
			})
		if _, err := Select(b); err != nil {
			t.Errorf("Select() error = %v, want nil (joined table has no schema)", err)
		}
	})
	t.Run("unknown group by column", func(t *testing.T) {
		_, err := Select(query.From("users").WithSchema(users).Select("id").GroupBy("nope"))
		wantKind(t, err, sqlerror.KindUnknownColumn)
	})
}

func TestValidate_NoPartialOutputOnError(t *testing.T) {
	stmt, err := Select(query.From("users").
		Select("name").
		SelectCount())
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if stmt.SQL != "" || stmt.Params != nil {
		t.Errorf("failed compile leaked output: %+v", stmt)
	}
}

func TestValidate_BuilderErrorsAreUsageErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"bad table", query.From("1bad").Select("x").Err()},
		{"bad limit", query.From("t").Select("x").Limit(0).Err()},
		{"bad value", query.NewWhere().Eq("a", uint(7)).Err()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var e *sqlerror.Error
			if !errors.As(tc.err, &e) {
				t.Fatalf("error %v is not a typed build error", tc.err)
			}
			if !e.Usage() {
				t.Errorf("error %v should be a usage error", tc.err)
			}
		})
	}
}

// Hand-built trees bypass the fluent API's checks, so malformed leaves must
// come back as internal invariant errors rather than generating bad SQL.
func TestValidate_MalformedTreesAreInternal(t *testing.T) {
	base := func(where query.Group) *query.Tree {
		return &query.Tree{
			Columns: []query.SelectExpr{{Kind: query.SelectColumn, Name: "id"}},
			From:    &query.TableRef{Name: "t"},
			Where:   &where,
		}
	}

	cases := []struct {
		name string
		tree *query.Tree
	}{
		{
			"unsupported operator",
			base(query.Group{Op: query.OpAnd, Nodes: []query.Cond{
				query.Condition{Kind: query.CondCompare, Column: "a", Operator: "~", Param: "param1"},
			}}),
		},
		{
			"missing placeholder",
			base(query.Group{Op: query.OpAnd, Nodes: []query.Cond{
				query.Condition{Kind: query.CondCompare, Column: "a", Operator: "<", Value: 1},
			}}),
		},
		{
			"nil node",
			base(query.Group{Op: query.OpAnd, Nodes: []query.Cond{nil}}),
		},
		{
			"unknown group operator",
			base(query.Group{Op: "XOR", Nodes: []query.Cond{
				query.Condition{Kind: query.CondNull, Column: "a", Operator: "IS NULL"},
				query.Condition{Kind: query.CondNull, Column: "b", Operator: "IS NULL"},
			}}),
		},
		{
			"unknown condition kind",
			base(query.Group{Op: query.OpAnd, Nodes: []query.Cond{
				query.Condition{Kind: "bogus", Column: "a"},
			}}),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(tc.tree)
			wantKind(t, err, sqlerror.KindInternal)
			var e *sqlerror.Error
			if errors.As(err, &e) && e.Usage() {
				t.Error("internal errors must not be usage errors")
			}
		})
	}
}

func TestValidate_InPlaceholderMismatch(t *testing.T) {
	tree := &query.Tree{
		Columns: []query.SelectExpr{{Kind: query.SelectColumn, Name: "id"}},
		From:    &query.TableRef{Name: "t"},
		Where: &query.Group{Op: query.OpAnd, Nodes: []query.Cond{
			query.Condition{
				Kind:     query.CondIn,
				Column:   "id",
				Operator: "IN",
				Values:   []any{int64(1), int64(2)},
				// Only one placeholder for two values.
				ParamNames: []string{"param1"},
			},
		}},
	}
	_, err := Compile(tree)
	wantKind(t, err, sqlerror.KindParamMismatch)
}

func TestValidate_CrossJoinWithConditionIsInternal(t *testing.T) {
	tree := &query.Tree{
		Columns: []query.SelectExpr{{Kind: query.SelectColumn, Name: "id"}},
		From:    &query.TableRef{Name: "a"},
		Joins: []query.JoinClause{{
			Kind:  query.CrossJoin,
			Table: query.TableRef{Name: "b"},
			On: query.Group{Op: query.OpAnd, Nodes: []query.Cond{
				query.Condition{Kind: query.CondNull, Column: "x", Operator: "IS NULL"},
			}},
		}},
	}
	_, err := Compile(tree)
	wantKind(t, err, sqlerror.KindInternal)
}

func TestValidate_PaginationOnHandBuiltTrees(t *testing.T) {
	col := []query.SelectExpr{{Kind: query.SelectColumn, Name: "id"}}

	t.Run("unregistered placeholder", func(t *testing.T) {
		tree := &query.Tree{Columns: col, From: &query.TableRef{Name: "t"}, LimitParam: "param9"}
		_, err := Compile(tree)
		wantKind(t, err, sqlerror.KindInternal)
	})
	t.Run("non-positive limit", func(t *testing.T) {
		var p query.Params
		p, name := p.Insert(int64(0))
		tree := &query.Tree{Columns: col, From: &query.TableRef{Name: "t"}, LimitParam: name, Params: p}
		_, err := Compile(tree)
		wantKind(t, err, sqlerror.KindInvalidLimit)
	})
	t.Run("negative offset", func(t *testing.T) {
		var p query.Params
		p, name := p.Insert(int64(-1))
		tree := &query.Tree{Columns: col, From: &query.TableRef{Name: "t"}, OffsetParam: name, Params: p}
		_, err := Compile(tree)
		wantKind(t, err, sqlerror.KindInvalidOffset)
	})
}
