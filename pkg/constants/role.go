package constants

// Role combat role a bot fills in a group
type Role uint8

const (
	RoleTank Role = iota
	RoleHealer
	RoleDPS

	// NumRoles number of roles, used to size index arrays
	NumRoles = 3
)

func (r Role) String() string {
	switch r {
	case RoleTank:
		return "TANK"
	case RoleHealer:
		return "HEALER"
	case RoleDPS:
		return "DPS"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether r is one of the three known roles
func (r Role) Valid() bool {
	return r < NumRoles
}

// Roles all roles in index order
func Roles() [NumRoles]Role {
	return [NumRoles]Role{RoleTank, RoleHealer, RoleDPS}
}

// Faction side a bot fights for
type Faction uint8

const (
	FactionA Faction = iota
	FactionB

	// NumFactions number of factions, used to size index arrays
	NumFactions = 2
)

func (f Faction) String() string {
	switch f {
	case FactionA:
		return "A"
	case FactionB:
		return "B"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether f is a known faction
func (f Faction) Valid() bool {
	return f < NumFactions
}

// Opposite returns the enemy faction
func (f Faction) Opposite() Faction {
	if f == FactionA {
		return FactionB
	}
	return FactionA
}

// Factions both factions in index order
func Factions() [NumFactions]Faction {
	return [NumFactions]Faction{FactionA, FactionB}
}
