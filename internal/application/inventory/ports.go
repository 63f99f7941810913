package inventory

import (
	"context"

	"github.com/kmuentes1145/act8/internal/application/dto"
	"github.com/kmuentes1145/act8/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda rastro de lo que hizo (Rollback).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// EventPublisher difunde cambios de stock ya confirmados (websocket, Redis).
// Es best-effort: no puede hacer fallar un movimiento ya registrado.
type EventPublisher interface {
	PublishStock(ctx context.Context, event dto.StockEvent)
}
