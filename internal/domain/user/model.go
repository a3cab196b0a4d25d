package user

import (
	"time"

	"github.com/google/uuid"
)

// Role is the account type of a user.
type Role string

const (
	RolePatient      Role = "patient"
	RolePractitioner Role = "practitioner"
	RoleAdmin        Role = "admin"
	RoleStaff        Role = "staff"
)

var roles = []Role{RolePatient, RolePractitioner, RoleAdmin, RoleStaff}

func (r Role) Valid() bool {
	for _, v := range roles {
		if r == v {
			return true
		}
	}
	return false
}

// RoleValues lists the legal roles in display order.
func RoleValues() []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

// User is an account. HashedPassword never leaves the process: it is
// excluded from JSON so every response carrying a User is the public view.
type User struct {
	ID             uuid.UUID `json:"_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	HashedPassword string    `json:"-"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Update holds the fields of a partial update; nil fields are left unchanged.
type Update struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Role      *Role
}

func (u Update) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Email == nil && u.Phone == nil && u.Role == nil
}

// Filter narrows FindAll by equality on the set fields.
type Filter struct {
	Role  Role
	Email string
}
