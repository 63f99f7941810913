package repository

import (
	"context"

	"github.com/kmuentes1145/act8/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id int64) error
	// AdjustStock suma delta al stock de forma atómica y devuelve el stock resultante.
	// Nunca deja el stock en negativo: ErrInsufficientStock en ese caso, ErrNotFound si no existe.
	AdjustStock(ctx context.Context, id int64, delta int) (int, error)
}
