package repository

import (
	"context"

	"github.com/kmuentes1145/act8/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del libro de movimientos (solo inserción).
type MovementRepository interface {
	// Create asigna ID y Date al movimiento.
	Create(ctx context.Context, movement *entity.Movement) error
	// List devuelve todos los movimientos con nombre de producto, más recientes primero.
	List(ctx context.Context) ([]*entity.MovementDetail, error)
	ListByProduct(ctx context.Context, productID int64) ([]*entity.MovementDetail, error)
	BalanceByProduct(ctx context.Context, productID int64) (entity.LedgerBalance, error)
}
