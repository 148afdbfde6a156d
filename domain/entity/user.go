package entity

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	Deleted   bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUser(id, email, name, passwordHash string, role Role) *User {
	if role == "" {
		role = RoleUser
	}
	now := time.Now()
	return &User{
		ID:        id,
		Email:     email,
		Name:      name,
		Password:  passwordHash,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Authorities returns the granted authority names for the user's role.
func (u *User) Authorities() []string {
	switch u.Role {
	case RoleAdmin:
		return []string{"ROLE_USER", "ROLE_ADMIN"}
	default:
		return []string{"ROLE_USER"}
	}
}

func (u *User) ChangePassword(passwordHash string) {
	u.Password = passwordHash
	u.UpdatedAt = time.Now()
}
