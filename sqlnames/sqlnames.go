// Package sqlnames validates raw table and alias names before they are
// admitted into a query tree. Validation classifies failures so callers can
// report them precisely; it does not quote or rewrite names beyond trimming
// surrounding whitespace.
package sqlnames

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxLen is the longest accepted identifier. Matches the Spanner limit.
const MaxLen = 128

// Reason classifies why a name was rejected.
type Reason string

const (
	ReasonEmpty       Reason = "empty"
	ReasonDigitStart  Reason = "starts_with_digit"
	ReasonInvalidChar Reason = "invalid_character"
	ReasonReserved    Reason = "reserved_keyword"
	ReasonTooLong     Reason = "too_long"
)

// Error reports a rejected name together with its classification.
type Error struct {
	Name   string
	Reason Reason
}

func (e *Error) Error() string {
	switch e.Reason {
	case ReasonEmpty:
		return "name cannot be empty"
	case ReasonDigitStart:
		return fmt.Sprintf("name %q cannot start with a digit", e.Name)
	case ReasonInvalidChar:
		return fmt.Sprintf("name %q may only contain letters, digits, and underscores", e.Name)
	case ReasonReserved:
		return fmt.Sprintf("name %q is a reserved keyword", e.Name)
	case ReasonTooLong:
		return fmt.Sprintf("name %q exceeds %d characters", e.Name, MaxLen)
	default:
		return fmt.Sprintf("invalid name %q", e.Name)
	}
}

// reserved holds keywords that cannot be used as bare table or alias names.
// Subset of the GoogleSQL reserved word list.
var reserved = map[string]bool{
	"all":       true,
	"and":       true,
	"any":       true,
	"array":     true,
	"as":        true,
	"asc":       true,
	"between":   true,
	"by":        true,
	"case":      true,
	"cast":      true,
	"create":    true,
	"cross":     true,
	"default":   true,
	"desc":      true,
	"distinct":  true,
	"else":      true,
	"end":       true,
	"except":    true,
	"exists":    true,
	"false":     true,
	"from":      true,
	"full":      true,
	"group":     true,
	"groups":    true,
	"having":    true,
	"if":        true,
	"in":        true,
	"inner":     true,
	"intersect": true,
	"interval":  true,
	"is":        true,
	"join":      true,
	"left":      true,
	"like":      true,
	"limit":     true,
	"natural":   true,
	"not":       true,
	"null":      true,
	"on":        true,
	"or":        true,
	"order":     true,
	"outer":     true,
	"right":     true,
	"select":    true,
	"set":       true,
	"struct":    true,
	"table":     true,
	"then":      true,
	"true":      true,
	"union":     true,
	"unnest":    true,
	"using":     true,
	"when":      true,
	"where":     true,
	"window":    true,
	"with":      true,
}

// Check validates a raw table or alias name. It returns the trimmed name on
// success, or an *Error classifying the failure.
func Check(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", &Error{Name: raw, Reason: ReasonEmpty}
	}
	if len(name) > MaxLen {
		return "", &Error{Name: name, Reason: ReasonTooLong}
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case unicode.IsDigit(r):
			if i == 0 {
				return "", &Error{Name: name, Reason: ReasonDigitStart}
			}
		default:
			return "", &Error{Name: name, Reason: ReasonInvalidChar}
		}
	}
	if reserved[strings.ToLower(name)] {
		return "", &Error{Name: name, Reason: ReasonReserved}
	}
	return name, nil
}

// Valid reports whether a name passes Check.
func Valid(raw string) bool {
	_, err := Check(raw)
	return err == nil
}
