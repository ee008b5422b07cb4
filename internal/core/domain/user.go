package domain

import (
	"strings"
	"time"
)

// Role is the access level of an account.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Project is the site partition that scopes what a User-role account sees.
type Project string

const (
	ProjectNormanton Project = "Normanton"
	ProjectBlank     Project = "Blank"
)

// Projects lists every project an account can be assigned to.
var Projects = []Project{ProjectNormanton, ProjectBlank}

// Valid reports whether p is one of the enumerated projects.
func (p Project) Valid() bool {
	for _, known := range Projects {
		if p == known {
			return true
		}
	}
	return false
}

// User models an account of the back office.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Project      Project   `json:"project,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Validate checks the role/project pairing. Admins carry no project; a
// User-role account always has one from the enumerated set.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" || strings.TrimSpace(u.Email) == "" || u.PasswordHash == "" {
		return ErrUserFieldsRequired
	}
	switch u.Role {
	case RoleAdmin:
		if u.Project != "" && !u.Project.Valid() {
			return ErrInvalidProject
		}
		return nil
	case RoleUser:
		if u.Project == "" {
			return ErrProjectRequired
		}
		if !u.Project.Valid() {
			return ErrInvalidProject
		}
		return nil
	default:
		return ErrInvalidRole
	}
}

// Principal is the caller identity carried by an access token.
type Principal struct {
	UserID  string
	Role    Role
	Project Project
}

// IsAdmin reports whether the principal has unrestricted visibility.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Creator is the subset of a user shown alongside records they created.
type Creator struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
