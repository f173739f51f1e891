package currency

import (
	"math"
	"testing"
)

func TestFormatManual(t *testing.T) {
	cases := []struct {
		amount float64
		code   string
		want   string
	}{
		{0, "USD", "$0.00"},
		{1234.5, "USD", "$1,234.50"},
		{-1234.5, "USD", "-$1,234.50"},
		{999.999, "USD", "$1,000.00"},
		{1000000, "EUR", "€1,000,000.00"},
		{42.1, "GBP", "£42.10"},
		{5, "JPY", "¥5.00"},
		{12.34, "XXX", "$12.34"}, // unknown code falls back to USD symbol
	}
	for _, tc := range cases {
		if got := Format(tc.amount, tc.code, false); got != tc.want {
			t.Fatalf("Format(%v, %q, false) = %q, want %q", tc.amount, tc.code, got, tc.want)
		}
	}
}

func TestFormatInvalidAmount(t *testing.T) {
	for _, code := range []string{"USD", "INR", "JPY", "BOGUS"} {
		want := Symbol(code) + "0.00"
		if got := Format(math.NaN(), code, true); got != want {
			t.Fatalf("Format(NaN, %q) = %q, want %q", code, got, want)
		}
		if got := Format(math.Inf(1), code, false); got != want {
			t.Fatalf("Format(+Inf, %q) = %q, want %q", code, got, want)
		}
	}
}

func TestFormatLocale(t *testing.T) {
	cases := []struct {
		amount float64
		code   string
		want   string
	}{
		{1234.5, "USD", "$1,234.50"},
		{-1234.5, "USD", "-$1,234.50"},
		{1234.5, "EUR", "€1.234,50"}, // de-DE grouping
		{1234.5, "INR", "₹1,234.50"},
		{5, "JPY", "¥5.00"}, // two decimals fixed even for JPY
	}
	for _, tc := range cases {
		if got := Format(tc.amount, tc.code, true); got != tc.want {
			t.Fatalf("Format(%v, %q, true) = %q, want %q", tc.amount, tc.code, got, tc.want)
		}
	}
}

func TestSymbolAndName(t *testing.T) {
	if got := Symbol("INR"); got != "₹" {
		t.Fatalf("Symbol(INR) = %q", got)
	}
	if got := Symbol("nope"); got != "$" {
		t.Fatalf("Symbol miss = %q, want USD default", got)
	}
	if got := Name("GBP"); got != "British Pound" {
		t.Fatalf("Name(GBP) = %q", got)
	}
	if got := Name(""); got != "US Dollar" {
		t.Fatalf("Name miss = %q, want US Dollar", got)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"$1,234.50", 1234.5},
		{"€99.90", 99.9},
		{"-$50.25", -50.25},
		{"₹0.75", 0.75},
		{"", 0},
		{"abc", 0},
		{"..--", 0},
		{"1000", 1000},
	}
	for _, tc := range cases {
		if got := ParseAmount(tc.in); got != tc.want {
			t.Fatalf("ParseAmount(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
