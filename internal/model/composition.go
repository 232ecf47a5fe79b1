package model

import (
	"fmt"
	"strings"

	"botpool/pkg/constants"
)

// Composition multiset of (role, count) a request needs
type Composition struct {
	Counts [constants.NumRoles]int `json:"counts"`
}

// NewComposition builds a composition from per-role counts
func NewComposition(tanks, healers, dps int) Composition {
	var c Composition
	c.Counts[constants.RoleTank] = tanks
	c.Counts[constants.RoleHealer] = healers
	c.Counts[constants.RoleDPS] = dps
	return c
}

// Need count required for one role
func (c Composition) Need(role constants.Role) int {
	return c.Counts[role]
}

// Total roster size the composition describes
func (c Composition) Total() int {
	total := 0
	for _, n := range c.Counts {
		total += n
	}
	return total
}

// Empty reports whether nothing is required
func (c Composition) Empty() bool {
	return c.Total() == 0
}

// Minus returns the per-role deficit after subtracting have, floored at zero
func (c Composition) Minus(have Composition) Composition {
	var out Composition
	for i, n := range c.Counts {
		if d := n - have.Counts[i]; d > 0 {
			out.Counts[i] = d
		}
	}
	return out
}

func (c Composition) String() string {
	parts := make([]string, 0, constants.NumRoles)
	for _, role := range constants.Roles() {
		if n := c.Counts[role]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", role, n))
		}
	}
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, " ")
}

// FactionSplit per-faction roster sizes for PvP content. Zero value means
// the request is single-faction.
type FactionSplit struct {
	A int `json:"a"`
	B int `json:"b"`
}

// IsPvP reports whether both sides need bots
func (f FactionSplit) IsPvP() bool {
	return f.A > 0 && f.B > 0
}

// Count roster size for one faction
func (f FactionSplit) Count(faction constants.Faction) int {
	if faction == constants.FactionA {
		return f.A
	}
	return f.B
}
