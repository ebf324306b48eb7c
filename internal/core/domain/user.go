package domain

import (
	"errors"
	"slices"
	"time"
)

// Role is the closed set of account roles on the marketplace.
type Role string

const (
	RoleStudent  Role = "student"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
)

var roles = []Role{RoleStudent, RoleEmployer, RoleAdmin}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("user with this email already exists")
	ErrUnknownEmail       = errors.New("no account found with this email")
	ErrNotAuthenticated   = errors.New("no user logged in")
	ErrInvalidRole        = errors.New("invalid role")
	ErrAccountNotFound    = errors.New("account not found")
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return slices.Contains(roles, r)
}

// ParseRole converts a raw string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Identity is the authenticated user record held by a session. It never
// carries credentials.
type Identity struct {
	ID       string    `json:"id"`
	Role     Role      `json:"role"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Avatar   string    `json:"avatar,omitempty"`
	Bio      string    `json:"bio,omitempty"`
	Skills   []string  `json:"skills,omitempty"`
	Location string    `json:"location,omitempty"`
	Website  string    `json:"website,omitempty"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Clone returns a deep copy so callers cannot alias the session's skills slice.
func (i Identity) Clone() Identity {
	i.Skills = slices.Clone(i.Skills)
	return i
}

// Account is a directory entry: an identity plus its password hash.
type Account struct {
	Identity
	PasswordHash string `json:"-"`
}

// ProfilePatch lists the mutable profile fields. A nil field is left untouched.
// ID, role and join date cannot be patched.
type ProfilePatch struct {
	Name     *string   `json:"name,omitempty"`
	Email    *string   `json:"email,omitempty"`
	Avatar   *string   `json:"avatar,omitempty"`
	Bio      *string   `json:"bio,omitempty"`
	Skills   *[]string `json:"skills,omitempty"`
	Location *string   `json:"location,omitempty"`
	Website  *string   `json:"website,omitempty"`
}

// Apply merges p over i, field by field.
func (p ProfilePatch) Apply(i Identity) Identity {
	out := i.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Email != nil {
		out.Email = *p.Email
	}
	if p.Avatar != nil {
		out.Avatar = *p.Avatar
	}
	if p.Bio != nil {
		out.Bio = *p.Bio
	}
	if p.Skills != nil {
		out.Skills = slices.Clone(*p.Skills)
	}
	if p.Location != nil {
		out.Location = *p.Location
	}
	if p.Website != nil {
		out.Website = *p.Website
	}
	return out
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Avatar == nil && p.Bio == nil &&
		p.Skills == nil && p.Location == nil && p.Website == nil
}
