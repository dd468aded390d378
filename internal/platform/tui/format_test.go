package tui

import (
	"math"
	"testing"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name       string
		v          float64
		scientific bool
		want       string
	}{
		{"zero", 0, false, "0"},
		{"integer", 42, false, "42"},
		{"fraction", 12.34, false, "12.3"},
		{"fraction rounds to whole", 7.96, false, "8"},
		{"just below thousand", 999, false, "999"},
		{"thousand", 1000, false, "1.00K"},
		{"thousands", 1234.5, false, "1.23K"},
		{"million", 2.5e6, false, "2.50M"},
		{"billion", 1e9, false, "1.00B"},
		{"trillion", 3e12, false, "3.00T"},
		{"quadrillion", 4e15, false, "4.00P"},
		{"quintillion", 5e18, false, "5.00E"},
		{"tier rollover", 999_999, false, "1.00M"},
		{"exponential threshold", 1e21, false, "1.00e+21"},
		{"huge", 1.5e30, false, "1.50e+30"},
		{"negative", -1500, false, "-1.50K"},
		{"scientific small", 999, true, "999"},
		{"scientific thousand", 1000, true, "1.00e+03"},
		{"scientific million", 2.5e6, true, "2.50e+06"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatNumber(tt.v, tt.scientific)
			if got != tt.want {
				t.Errorf("FormatNumber(%v, %v) = %q, want %q", tt.v, tt.scientific, got, tt.want)
			}
		})
	}
}

func TestFormatNumberSpecial(t *testing.T) {
	if got := FormatNumber(math.Inf(1), false); got != "∞" {
		t.Errorf("FormatNumber(+Inf) = %q", got)
	}
	if got := FormatNumber(math.NaN(), false); got != "NaN" {
		t.Errorf("FormatNumber(NaN) = %q", got)
	}
}

func TestFormatRate(t *testing.T) {
	if got := FormatRate(1500, false); got != "1.50K/s" {
		t.Errorf("FormatRate(1500) = %q, want 1.50K/s", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0s"},
		{-5, "0s"},
		{1, "1s"},
		{15000, "15s"},
		{14001, "15s"},
		{90000, "1m30s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.ms); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}
