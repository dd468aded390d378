package core

import (
	"encoding/json"
	"fmt"
	"math"
)

// Ledger holds one non-negative amount per resource.
// It is an array so that assigning a Ledger copies it.
type Ledger [NumResources]float64

// Get returns the amount of r, or 0 for an invalid resource.
func (l Ledger) Get(r Resource) float64 {
	if !r.Valid() {
		return 0
	}
	return l[r]
}

// Add returns a copy of l with delta added to r.
func (l Ledger) Add(r Resource, delta float64) Ledger {
	if r.Valid() {
		l[r] += delta
	}
	return l
}

// Covers reports whether l holds at least amount of r.
func (l Ledger) Covers(r Resource, amount float64) bool {
	return r.Valid() && l[r] >= amount
}

// Scale returns every entry multiplied by f.
func (l Ledger) Scale(f float64) Ledger {
	for i := range l {
		l[i] *= f
	}
	return l
}

// Plus returns the entry-wise sum of l and o.
func (l Ledger) Plus(o Ledger) Ledger {
	for i := range l {
		l[i] += o[i]
	}
	return l
}

// NonZero lists the resources with a non-zero amount, in chain order.
func (l Ledger) NonZero() []Resource {
	var out []Resource
	for i, v := range l {
		if v != 0 {
			out = append(out, Resource(i))
		}
	}
	return out
}

// Negative reports the first resource with a negative or NaN amount.
func (l Ledger) Negative() (Resource, bool) {
	for i, v := range l {
		if v < 0 || math.IsNaN(v) {
			return Resource(i), true
		}
	}
	return 0, false
}

// Map returns the ledger keyed by display name.
func (l Ledger) Map() map[string]float64 {
	m := make(map[string]float64, NumResources)
	for i, v := range l {
		m[resourceNames[i]] = v
	}
	return m
}

// MarshalJSON writes the ledger as an object keyed by display name.
func (l Ledger) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Map())
}

// UnmarshalJSON merges the object onto the current contents: keys that are
// missing keep their value and unknown keys are ignored, so older or partial
// saves decode onto defaults.
func (l *Ledger) UnmarshalJSON(b []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	for name, v := range raw {
		r, err := ParseResource(name)
		if err != nil {
			continue
		}
		l[r] = v
	}
	return nil
}
