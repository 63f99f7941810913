package dto

import "time"

// RegisterRequest entrada para POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"nombre" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,max=72"`
	Role     string `json:"rol" validate:"omitempty,oneof=admin usuario"`
}

// LoginRequest entrada para POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse proyección pública de una cuenta (sin password ni hash).
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nombre"`
	Email     string    `json:"email"`
	Role      string    `json:"rol"`
	CreatedAt time.Time `json:"fecha_registro"`
}

// LoginResponse salida del login: token Bearer y la cuenta.
type LoginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"usuario"`
}
