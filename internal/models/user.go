package models

import "time"

const (
	RoleStudent  = "STUDENT"
	RoleLecturer = "LECTURER"
	RoleAdmin    = "ADMIN"
)

// User is a registered account. Password holds the bcrypt hash and is never
// serialized to JSON.
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"`
	Roles     []string  `bson:"roles" json:"roles"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Caller is the resolved identity of a request, produced by the auth
// middleware and consumed by the services.
type Caller struct {
	UserID string
	Roles  []string
}

func (c Caller) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (c Caller) IsAdmin() bool { return c.HasRole(RoleAdmin) }

// ValidRole reports whether role is one of the known role names.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleLecturer || role == RoleAdmin
}
