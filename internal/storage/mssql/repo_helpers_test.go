// Package mssql contains tests for helper utilities used by the MSSQL adapter.
package mssql

import (
	"context"
	"testing"
)

// TestNormalizeValue verifies driver values are widened to the types the
// pipelines consume.
func TestNormalizeValue(t *testing.T) {
	cases := []struct {
		in, want any
	}{
		{[]byte("abc"), "abc"},
		{int32(5), int64(5)},
		{int16(5), int64(5)},
		{uint8(5), int64(5)},
		{float32(1.5), 1.5},
		{int64(9), int64(9)},
		{nil, nil},
	}
	for _, tc := range cases {
		if got := normalizeValue(tc.in); got != tc.want {
			t.Fatalf("normalizeValue(%#v) = %#v; want %#v", tc.in, got, tc.want)
		}
	}
}

// TestNewRepositoryRejectsBadDSN ensures DSN parsing fails before any network
// activity.
func TestNewRepositoryRejectsBadDSN(t *testing.T) {
	if _, _, err := NewRepository(context.Background(), Config{DSN: "sqlserver://%zz@host"}); err == nil {
		t.Fatalf("expected DSN parse error")
	}
}

func TestRepositoryQuoting(t *testing.T) {
	r := &Repository{}
	if got := r.QuoteIdent("Vendor]Name"); got != "[Vendor]]Name]" {
		t.Fatalf("QuoteIdent = %q", got)
	}
}
