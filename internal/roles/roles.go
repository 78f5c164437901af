package roles

import (
	"errors"  // Sentinel errors
	"strings" // Case-insensitive parsing
)

// Role is the closed set of dashboard roles. The ordinal doubles as the
// on-chain role id in the composite token id encoding.
type Role int

// The three supported roles
const (
	Investor Role = 1 // Investor dashboards
	Donor    Role = 2 // Donor dashboards
	Ops      Role = 3 // Operations dashboards
)

// ErrUnknownRole is returned when a role string is not one of the fixed set
var ErrUnknownRole = errors.New("unknown role")

// ErrBadProjectID is returned when a project id is not a positive integer
var ErrBadProjectID = errors.New("project id must be positive")

// Parse maps a role string to its Role, case-insensitively
func Parse(s string) (Role, error) {
	// Match against the fixed set, never defaulting silently
	switch strings.ToLower(s) {
	case "investor":
		return Investor, nil // Investor role
	case "donor":
		return Donor, nil // Donor role
	case "ops":
		return Ops, nil // Ops role
	}
	return 0, ErrUnknownRole // Anything else is rejected
}

// String returns the lowercase role name used in URLs and persisted rows
func (r Role) String() string {
	switch r {
	case Investor:
		return "investor"
	case Donor:
		return "donor"
	case Ops:
		return "ops"
	}
	return "unknown" // Unreachable for values produced by Parse
}

// TokenID derives the composite access token id for a (project, role) pair:
// tokenId = projectId*100 + roleOrdinal. The encoding is injective across
// the supported role ordinals {1,2,3}.
func TokenID(projectID int64, r Role) (int64, error) {
	// Require a positive project id
	if projectID <= 0 {
		return 0, ErrBadProjectID
	}
	return projectID*100 + int64(r), nil // Composite id
}

// BaseTokenID returns the project's base token id (role slot zero), stored
// on the project record for reference and used by the public data lookup.
func BaseTokenID(projectID int64) int64 {
	return projectID * 100
}
