// Package compile serializes query trees into parameterized Spanner SQL.
// Generation is pure and deterministic: compiling the same tree twice yields
// byte-identical output, and nothing is emitted on failure.
package compile

import "cloud.google.com/go/spanner"

// Statement is a compiled SQL string together with the name-to-value map of
// every placeholder the SQL references. Every @name token in SQL has a key
// in Params, and every key in Params is referenced at least once in SQL.
type Statement struct {
	SQL    string
	Params map[string]any
}

// Spanner converts the statement for execution with a Cloud Spanner client.
func (s Statement) Spanner() spanner.Statement {
	params := make(map[string]interface{}, len(s.Params))
	for k, v := range s.Params {
		params[k] = v
	}
	return spanner.Statement{SQL: s.SQL, Params: params}
}

// placeholder returns the SQL token for a registered parameter name.
func placeholder(name string) string {
	return "@" + name
}
