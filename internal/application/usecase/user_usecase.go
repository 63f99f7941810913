package usecase

import (
	"context"

	"github.com/kmuentes1145/act8/internal/application/dto"
	"github.com/kmuentes1145/act8/internal/domain"
	"github.com/kmuentes1145/act8/internal/domain/entity"
	"github.com/kmuentes1145/act8/internal/domain/repository"
)

// UserUseCase administración de cuentas: listado y baja.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// List devuelve la proyección pública de todas las cuentas, más recientes primero.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, ToUserResponse(u))
	}
	return out, nil
}

// Delete elimina una cuenta. La cuenta principal (ID 1) no se puede eliminar.
func (uc *UserUseCase) Delete(ctx context.Context, id int64) error {
	if id == entity.PrincipalUserID {
		return domain.ErrPrincipalAccount
	}
	if id <= 0 {
		return domain.ErrInvalidInput
	}
	return uc.repo.Delete(ctx, id)
}

// ToUserResponse proyección pública de una cuenta; nunca incluye el hash.
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
