package core

import (
	"errors"
	"fmt"
	"strings"
)

// Resource identifies one counter of the resource ledger.
// The order is the production chain order and is used as the ledger index.
type Resource int

const (
	Energy     Resource = iota
	Quark               // produced by click/idle upgrades once quarks are unlocked
	Proton              // converted from quarks
	Atom                // hydrogen atoms, converted from protons
	Star                // converted from atoms, prestige currency source
	DarkMatter          // generated from the star stock

	NumResources = int(DarkMatter) + 1
)

// ErrUnknownResource is returned when a resource name cannot be parsed.
var ErrUnknownResource = errors.New("unknown resource")

var resourceNames = [NumResources]string{
	Energy:     "Energy",
	Quark:      "Quark",
	Proton:     "Proton",
	Atom:       "Hydrogen Atom",
	Star:       "Star",
	DarkMatter: "Dark Matter",
}

var resourceKeys = [NumResources]string{
	Energy:     "energy",
	Quark:      "quark",
	Proton:     "proton",
	Atom:       "atom",
	Star:       "star",
	DarkMatter: "dark_matter",
}

// Resources lists every resource in chain order.
func Resources() []Resource {
	out := make([]Resource, NumResources)
	for i := range out {
		out[i] = Resource(i)
	}
	return out
}

// Valid reports whether r is one of the known resources.
func (r Resource) Valid() bool {
	return r >= 0 && int(r) < NumResources
}

// String returns the display name used in saves and the UI.
func (r Resource) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Resource(%d)", int(r))
	}
	return resourceNames[r]
}

// Key returns the short snake_case identifier used on the command line.
func (r Resource) Key() string {
	if !r.Valid() {
		return ""
	}
	return resourceKeys[r]
}

// MarshalText encodes the resource by display name.
func (r Resource) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownResource, int(r))
	}
	return []byte(resourceNames[r]), nil
}

// UnmarshalText accepts anything ParseResource accepts.
func (r *Resource) UnmarshalText(b []byte) error {
	v, err := ParseResource(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ParseResource resolves a display name ("Hydrogen Atom") or a key ("atom",
// "dark_matter"). Matching is case-insensitive; spaces, dashes and
// underscores are interchangeable.
func ParseResource(s string) (Resource, error) {
	norm := normalizeName(s)
	for i := 0; i < NumResources; i++ {
		if norm == normalizeName(resourceNames[i]) || norm == normalizeName(resourceKeys[i]) {
			return Resource(i), nil
		}
	}
	if norm == "hydrogen" {
		return Atom, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownResource, s)
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
