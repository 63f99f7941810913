package repository

import (
	"context"

	"github.com/kmuentes1145/act8/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	// Create asigna ID y CreatedAt. ErrEmailAlreadyExists si el email ya existe.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// List devuelve las cuentas más recientes primero.
	List(ctx context.Context) ([]*entity.User, error)
	Delete(ctx context.Context, id int64) error
}
