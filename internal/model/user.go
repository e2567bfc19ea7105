package model

import (
	"time"

	"github.com/google/uuid"
)

// Role values for User.Rol.
const (
	RoleEmployee = "empleado"
	RoleAdmin    = "administrador"
)

// User stores system users with role-based access.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user may perform privileged operations
// (approve/reopen shifts, manage users, patch config).
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
