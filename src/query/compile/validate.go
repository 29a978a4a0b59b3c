package compile

import (
	"strings"

	"github.com/spanq/spanq/sqlerror"
	"github.com/spanq/spanq/src/query"
)

// ValidateTree checks the structural rules a tree must satisfy before any SQL
// is generated. Validation is all-or-nothing: a tree that fails here produces
// no output at all.
func ValidateTree(t *query.Tree) error {
	if t.From == nil {
		return sqlerror.InvalidName("query has no source table")
	}
	if len(t.Columns) == 0 {
		return sqlerror.EmptySelect("SELECT has no output columns")
	}

	seen := make(map[string]struct{}, len(t.Columns))
	for _, col := range t.Columns {
		if col.Alias == "" {
			continue
		}
		if _, dup := seen[col.Alias]; dup {
			return sqlerror.DuplicateAliasf("output alias %q used more than once", col.Alias)
		}
		seen[col.Alias] = struct{}{}
	}

	if err := validateGrouping(t); err != nil {
		return err
	}

	for _, j := range t.Joins {
		if (j.Kind == query.CrossJoin || j.Kind == query.NaturalJoin) && len(j.On.Nodes) > 0 {
			return sqlerror.Internalf("%s join of %q carries an ON condition", j.Kind, j.Table.Name)
		}
	}

	if err := validateSchema(t); err != nil {
		return err
	}
	return validatePagination(t)
}

// validateGrouping enforces the aggregate rules: HAVING needs a GROUP BY, and
// once any output column aggregates, every non-aggregate output column must
// appear in the grouping list. Expression columns are matched against grouping
// expressions by exact text.
func validateGrouping(t *query.Tree) error {
	grouped := len(t.GroupBy)+len(t.GroupByExprs) > 0
	if t.Having != nil && !grouped {
		return sqlerror.HavingWithoutGroupBy("HAVING requires a GROUP BY clause")
	}

	hasAgg := false
	for _, col := range t.Columns {
		if col.Kind == query.SelectAggregate {
			hasAgg = true
			break
		}
	}
	if !hasAgg {
		return nil
	}

	groupCols := make(map[string]struct{}, len(t.GroupBy))
	for _, c := range t.GroupBy {
		groupCols[c] = struct{}{}
	}
	groupExprs := make(map[string]struct{}, len(t.GroupByExprs))
	for _, e := range t.GroupByExprs {
		groupExprs[e] = struct{}{}
	}

	for _, col := range t.Columns {
		switch col.Kind {
		case query.SelectColumn:
			if _, ok := groupCols[col.Name]; !ok {
				return sqlerror.UngroupedColumnf(
					"column %q is selected alongside aggregates but not grouped", col.Name)
			}
		case query.SelectExpression:
			if _, ok := groupExprs[col.Text]; !ok {
				return sqlerror.UngroupedColumnf(
					"expression %q is selected alongside aggregates but not grouped", col.Text)
			}
		}
	}
	return nil
}

// validateSchema rejects bare column names absent from the merged schema.
// The check only runs when every table reference declares a schema; qualified
// names are never checked, since an alias-qualified reference cannot be
// resolved against the flat column union.
func validateSchema(t *query.Tree) error {
	schema := t.MergedSchema()
	if schema == nil {
		return nil
	}
	for _, col := range t.Columns {
		if col.Kind != query.SelectColumn || col.Name == "*" {
			continue
		}
		if err := checkKnown(schema, col.Name); err != nil {
			return err
		}
	}
	for _, c := range t.GroupBy {
		if err := checkKnown(schema, c); err != nil {
			return err
		}
	}
	return nil
}

func checkKnown(schema *query.Schema, name string) error {
	if strings.Contains(name, ".") {
		return nil
	}
	if !schema.Has(name) {
		return sqlerror.UnknownColumnf("column %q is not declared by any table schema", name)
	}
	return nil
}

// validatePagination checks that LIMIT/OFFSET placeholders resolve to values
// in the registry and that those values are in range. The fluent builders
// validate the range up front; this guards hand-built trees.
func validatePagination(t *query.Tree) error {
	if t.LimitParam != "" {
		n, err := paginationValue(t, t.LimitParam, "LIMIT")
		if err != nil {
			return err
		}
		if n <= 0 {
			return sqlerror.InvalidLimitf("limit must be positive, got %d", n)
		}
	}
	if t.OffsetParam != "" {
		n, err := paginationValue(t, t.OffsetParam, "OFFSET")
		if err != nil {
			return err
		}
		if n < 0 {
			return sqlerror.InvalidOffsetf("offset must not be negative, got %d", n)
		}
	}
	return nil
}

func paginationValue(t *query.Tree, name, clause string) (int64, error) {
	v, ok := t.Params.Value(name)
	if !ok {
		return 0, sqlerror.Internalf("%s placeholder %q is not registered", clause, name)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, sqlerror.Internalf("%s placeholder %q holds a %T, want an integer", clause, name, v)
	}
}
