package query

import "sort"

// TypeHint is the declared Spanner type of a column. Hints are opaque to the
// condition generator; they exist so callers can carry a column set along
// with a table reference.
type TypeHint string

const (
	HintString    TypeHint = "STRING"
	HintInt64     TypeHint = "INT64"
	HintFloat64   TypeHint = "FLOAT64"
	HintBool      TypeHint = "BOOL"
	HintTimestamp TypeHint = "TIMESTAMP"
	HintDate      TypeHint = "DATE"
	HintBytes     TypeHint = "BYTES"
	HintArray     TypeHint = "ARRAY"
)

// Schema is an immutable bag of column-name to type-hint entries attached to
// a table reference. When every table in a query carries a schema, the
// compiler rejects unknown bare column names in SELECT and GROUP BY.
type Schema struct {
	cols map[string]TypeHint
}

// NewSchema builds a schema from a column map. The map is copied.
func NewSchema(cols map[string]TypeHint) *Schema {
	out := make(map[string]TypeHint, len(cols))
	for name, hint := range cols {
		out[name] = hint
	}
	return &Schema{cols: out}
}

// Has reports whether the schema declares a column.
func (s *Schema) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.cols[name]
	return ok
}

// Hint returns the declared type of a column.
func (s *Schema) Hint(name string) (TypeHint, bool) {
	if s == nil {
		return "", false
	}
	hint, ok := s.cols[name]
	return hint, ok
}

// Columns returns the declared column names, sorted.
func (s *Schema) Columns() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.cols))
	for name := range s.cols {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Merge returns the union of two schemas. On a shared column name the
// receiver's hint wins. Either side may be nil.
func (s *Schema) Merge(o *Schema) *Schema {
	if s == nil {
		return o
	}
	if o == nil {
		return s
	}
	cols := make(map[string]TypeHint, len(s.cols)+len(o.cols))
	for name, hint := range o.cols {
		cols[name] = hint
	}
	for name, hint := range s.cols {
		cols[name] = hint
	}
	return &Schema{cols: cols}
}
