// Package types contains common types used across the application
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tier is a clinical risk tier ordered by severity.
type Tier int

// Risk tiers, lowest to highest severity.
const (
	Low Tier = iota
	Moderate
	High
	Critical
)

var tierNames = [...]string{"Low", "Moderate", "High", "Critical"}

// Tiers lists all tiers in ascending severity.
func Tiers() []Tier {
	return []Tier{Low, Moderate, High, Critical}
}

// String returns the display name, e.g. "Moderate".
func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierNames[t]
}

// Valid reports whether t is one of the four defined tiers.
func (t Tier) Valid() bool {
	return t >= Low && t <= Critical
}

// Max returns the more severe of a and b.
func Max(a, b Tier) Tier {
	if a > b {
		return a
	}
	return b
}

// Escalate moves t one step up, saturating at Critical.
func (t Tier) Escalate() Tier {
	if t >= Critical {
		return Critical
	}
	return t + 1
}

// ParseTier parses a tier name case-insensitively.
func ParseTier(s string) (Tier, error) {
	for i, name := range tierNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Tier(i), nil
		}
	}
	return Low, fmt.Errorf("unknown risk tier %q", s)
}

// MarshalJSON encodes the tier as its display name.
func (t Tier) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid risk tier %d", int(t))
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a tier from its display name.
func (t *Tier) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("risk tier must be a string: %w", err)
	}
	parsed, err := ParseTier(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
