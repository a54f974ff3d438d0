package schema

import (
	"testing"
)

func TestInfer(t *testing.T) {
	t.Parallel()

	header := []string{"VendorNumber", "Dollars", "VendorName", "Empty", "Mixed"}
	rows := [][]string{
		{"105", "12.50", "ALTAMAR BRANDS LLC  ", "", "1"},
		{"4466", "3", "AMERICAN VINTAGE", "NaN", "2.5"},
		{"388", "", "ATLANTIC IMPORTING", "", "x"},
	}

	got := Infer(header, rows)
	want := []Kind{KindInteger, KindReal, KindText, KindReal, KindText}
	if len(got) != len(want) {
		t.Fatalf("Infer returned %d columns, want %d", len(got), len(want))
	}
	for i, c := range got {
		if c.Name != header[i] {
			t.Fatalf("column %d name = %q, want %q", i, c.Name, header[i])
		}
		if c.Kind != want[i] {
			t.Fatalf("column %q kind = %q, want %q", c.Name, c.Kind, want[i])
		}
	}
}

func TestInferShortRows(t *testing.T) {
	t.Parallel()

	got := Infer([]string{"a", "b"}, [][]string{{"1"}})
	if got[0].Kind != KindInteger || got[1].Kind != KindReal {
		t.Fatalf("Infer short rows = %+v", got)
	}
}

func TestInferRejectsNonFinite(t *testing.T) {
	t.Parallel()

	got := Infer([]string{"a"}, [][]string{{"Inf"}, {"1"}})
	if got[0].Kind != KindText {
		t.Fatalf("kind = %q, want text", got[0].Kind)
	}
}

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind Kind
		in   string
		want any
	}{
		{name: "int", kind: KindInteger, in: "42", want: int64(42)},
		{name: "int padded", kind: KindInteger, in: " 42 ", want: int64(42)},
		{name: "int missing", kind: KindInteger, in: "", want: nil},
		{name: "int widened to real", kind: KindInteger, in: "4.5", want: 4.5},
		{name: "int widened to text", kind: KindInteger, in: "abc", want: "abc"},
		{name: "real", kind: KindReal, in: "0.75", want: 0.75},
		{name: "real from int text", kind: KindReal, in: "3", want: float64(3)},
		{name: "real missing marker", kind: KindReal, in: "N/A", want: nil},
		{name: "text keeps spaces", kind: KindText, in: "  Vodka ", want: "  Vodka "},
		{name: "text null", kind: KindText, in: "NULL", want: nil},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Convert(tt.kind, tt.in); got != tt.want {
				t.Fatalf("Convert(%q, %q) = %#v, want %#v", tt.kind, tt.in, got, tt.want)
			}
		})
	}
}

func TestIsMissing(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "NA", "nan", "None", "#N/A", "<NA>"} {
		if !IsMissing(s) {
			t.Fatalf("IsMissing(%q) = false, want true", s)
		}
	}
	for _, s := range []string{" ", "0", "none", "Unknown"} {
		if IsMissing(s) {
			t.Fatalf("IsMissing(%q) = true, want false", s)
		}
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	got := Names([]Column{{Name: "a"}, {Name: "b"}})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Names = %v", got)
	}
}
