package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "usuario"
)

// PrincipalUserID es la cuenta principal; no se puede eliminar.
const PrincipalUserID int64 = 1

// User representa una cuenta del sistema.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string // bcrypt; nunca sale del store
	Role         string
	CreatedAt    time.Time
}
