package core

import (
	"errors"
	"testing"
)

func TestParseResource(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Resource
		wantErr  bool
	}{
		{name: "display name", input: "Energy", expected: Energy},
		{name: "lower key", input: "quark", expected: Quark},
		{name: "atom display name", input: "Hydrogen Atom", expected: Atom},
		{name: "atom key", input: "atom", expected: Atom},
		{name: "atom snake", input: "hydrogen_atom", expected: Atom},
		{name: "dark matter dashed", input: "dark-matter", expected: DarkMatter},
		{name: "dark matter display", input: "Dark Matter", expected: DarkMatter},
		{name: "padded", input: "  STAR ", expected: Star},
		{name: "unknown", input: "antimatter", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResource(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownResource) {
					t.Errorf("ParseResource(%q) error = %v, want ErrUnknownResource", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseResource(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseResource(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestResourceTextRoundTrip(t *testing.T) {
	for _, r := range Resources() {
		b, err := r.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error: %v", r, err)
		}
		var back Resource
		if err := back.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%q) error: %v", b, err)
		}
		if back != r {
			t.Errorf("round trip of %v = %v", r, back)
		}
	}
}

func TestResourceInvalid(t *testing.T) {
	r := Resource(42)
	if r.Valid() {
		t.Error("Resource(42) should not be valid")
	}
	if _, err := r.MarshalText(); err == nil {
		t.Error("MarshalText of invalid resource should fail")
	}
	if r.Key() != "" {
		t.Errorf("Key() = %q, want empty", r.Key())
	}
}
