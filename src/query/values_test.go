package query

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/spanq/spanq/sqlerror"
)

func TestCheckValue_AcceptsSpannerDomain(t *testing.T) {
	cases := []struct {
		name string
		v    any
	}{
		{"nil", nil},
		{"string", "hello"},
		{"bool", true},
		{"int", 1},
		{"int8", int8(1)},
		{"int16", int16(1)},
		{"int32", int32(1)},
		{"int64", int64(1)},
		{"float32", float32(1.5)},
		{"float64", 1.5},
		{"timestamp", time.Now()},
		{"date", civil.Date{Year: 2026, Month: time.August, Day: 30}},
		{"bytes", []byte{0x01, 0x02}},
		{"string slice", []string{"a", "b"}},
		{"any slice", []any{"a", int64(1), nil}},
		{"nested slice", []any{[]any{"a"}, []any{int64(2)}}},
		{"empty slice", []any{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := CheckValue(tc.v); err != nil {
				t.Errorf("CheckValue(%v) = %v, want nil", tc.v, err)
			}
		})
	}
}

func TestCheckValue_RejectsOutsideDomain(t *testing.T) {
	cases := []struct {
		name string
		v    any
	}{
		{"uint", uint(1)},
		{"uint64", uint64(1)},
		{"struct", struct{ X int }{X: 1}},
		{"map", map[string]int{"a": 1}},
		{"channel", make(chan int)},
		{"func", func() {}},
		{"complex", complex(1, 2)},
		{"slice with bad element", []any{"ok", uint(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckValue(tc.v)
			if err == nil {
				t.Fatalf("CheckValue(%v) = nil, want error", tc.v)
			}
			if !sqlerror.Is(err, sqlerror.KindBadValue) {
				t.Errorf("CheckValue(%v) kind = %q, want %q", tc.v, sqlerror.KindOf(err), sqlerror.KindBadValue)
			}
		})
	}
}

func TestValuesEqual_ByteSlicesCompareByContent(t *testing.T) {
	if !valuesEqual([]byte("abc"), []byte("abc")) {
		t.Error("equal byte slices must compare equal")
	}
	if valuesEqual([]byte("abc"), []byte("abd")) {
		t.Error("different byte slices must not compare equal")
	}
}

func TestValuesEqual_TimesCompareByInstant(t *testing.T) {
	utc := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	local := utc.In(time.FixedZone("plus2", 2*3600))
	if !valuesEqual(utc, local) {
		t.Error("the same instant in different zones must compare equal")
	}
}
