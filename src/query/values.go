package query

import (
	"bytes"
	"reflect"
	"time"

	"cloud.google.com/go/civil"

	"github.com/spanq/spanq/sqlerror"
)

// CheckValue gates values before they enter a tree. The accepted domain is
// the Spanner-representable one: string, signed integers, floats, bool, nil,
// time.Time (TIMESTAMP), civil.Date (DATE), []byte (BYTES), and slices of
// any of these, recursively. Everything else is rejected with a
// KindBadValue error.
func CheckValue(v any) error {
	if v == nil {
		return nil
	}
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		float32, float64,
		time.Time, civil.Date, []byte:
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		for i := 0; i < rv.Len(); i++ {
			if err := CheckValue(rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	}
	return sqlerror.BadValuef("unsupported value type %T", v)
}

// valuesEqual is the registry's deduplication rule. Primitives, timestamps,
// dates, and byte buffers compare by value; slices compare by deep
// structural equality of their elements under the same rule; any other
// reference type compares by identity. Slices are typically literal IN
// lists built fresh on each call, so structural equality maximizes reuse,
// while opaque values are matched by identity to avoid false merges.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case []byte:
		bv, ok := b.([]byte)
		return ok && bytes.Equal(av, bv)
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() == reflect.Slice || rb.Kind() == reflect.Slice {
		if ra.Kind() != reflect.Slice || rb.Kind() != reflect.Slice {
			return false
		}
		if ra.Len() != rb.Len() {
			return false
		}
		for i := 0; i < ra.Len(); i++ {
			if !valuesEqual(ra.Index(i).Interface(), rb.Index(i).Interface()) {
				return false
			}
		}
		return true
	}

	switch ra.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return rb.Kind() == ra.Kind() && ra.Pointer() == rb.Pointer()
	}

	if ra.Type() != rb.Type() || !ra.Type().Comparable() {
		return false
	}
	return a == b
}
