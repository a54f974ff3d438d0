package ddl

import (
	"testing"

	"vendoretl/internal/schema"
)

// TestMapType verifies that MapType maps every logical kind into the expected
// Postgres SQL type and defaults to TEXT.
func TestMapType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind schema.Kind
		want string
	}{
		{name: "integer", kind: schema.KindInteger, want: "BIGINT"},
		{name: "real", kind: schema.KindReal, want: "DOUBLE PRECISION"},
		{name: "text", kind: schema.KindText, want: "TEXT"},
		{name: "empty", kind: "", want: "TEXT"},
		{name: "unknown", kind: "jsonb", want: "TEXT"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := MapType(tt.kind); got != tt.want {
				t.Fatalf("MapType(%q) = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"VendorNumber": `"VendorNumber"`,
		`a"b`:          `"a""b"`,
		"":             `""`,
	}
	for in, want := range cases {
		if got := QuoteIdent(in); got != want {
			t.Fatalf("QuoteIdent(%q) = %q, want %q", in, got, want)
		}
	}
}
