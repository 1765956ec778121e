package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Role — роль учётной записи. Роли взаимоисключающие.
type Role int

const (
	RoleUnknown Role = iota
	RoleFarmer
	RoleBuyer
	RoleAdmin
)

// ParseRole разбирает роль из claims токена
func ParseRole(s string) (Role, error) {
	switch s {
	case "Farmer":
		return RoleFarmer, nil
	case "Buyer":
		return RoleBuyer, nil
	case "Admin":
		return RoleAdmin, nil
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	switch r {
	case RoleFarmer:
		return "Farmer"
	case RoleBuyer:
		return "Buyer"
	case RoleAdmin:
		return "Admin"
	case RoleUnknown:
		return "Unknown"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// User представляет аутентифицированного пользователя (идентификатор и роль)
type User struct {
	ID   uuid.UUID
	Role Role
}
