package model

import (
	"encoding/json"
	"strings"
)

// Role is the rider classification used by the fantasy game.
type Role int

// Rider roles. RoleUnknown is reserved for placeholders and unrecognised
// source values.
const (
	RoleUnknown Role = iota
	RoleAllRounder
	RoleClimber
	RoleSprinter
	RoleUnclassed
)

// Roles lists the playable roles in display order.
var Roles = []Role{RoleAllRounder, RoleClimber, RoleSprinter, RoleUnclassed}

var roleNames = map[Role]string{
	RoleUnknown:    "Unknown",
	RoleAllRounder: "All Rounder",
	RoleClimber:    "Climber",
	RoleSprinter:   "Sprinter",
	RoleUnclassed:  "Unclassed",
}

var roleColors = map[Role]string{
	RoleUnknown:    "#4bc0c0",
	RoleAllRounder: "#ff6384",
	RoleClimber:    "#36a2eb",
	RoleSprinter:   "#cc65fe",
	RoleUnclassed:  "#ffce56",
}

// String returns the display label of the role.
func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return roleNames[RoleUnknown]
}

// Color returns the chart color associated with the role.
func (r Role) Color() string {
	if c, ok := roleColors[r]; ok {
		return c
	}
	return roleColors[RoleUnknown]
}

// ParseRole maps the source spellings ("All Rounder", "All-rounder",
// "allrounder", ...) onto a Role. Unrecognised values yield RoleUnknown.
func ParseRole(s string) Role {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "allrounder":
		return RoleAllRounder
	case "climber":
		return RoleClimber
	case "sprinter":
		return RoleSprinter
	case "unclassed":
		return RoleUnclassed
	default:
		return RoleUnknown
	}
}

// MarshalJSON encodes the role as its display label.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts any of the spellings ParseRole understands.
func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*r = ParseRole(s)
	return nil
}
