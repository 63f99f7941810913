package memory

import (
	"context"

	"github.com/kmuentes1145/act8/internal/application/inventory"
	"github.com/kmuentes1145/act8/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks con todo-o-nada sobre el Store.
// Mantiene el lock durante la función: las transacciones quedan serializadas.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run trabaja sobre una copia del estado y la confirma solo si fn no devuelve error.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tx := r.s.state.clone()
	movRepo := &MovementRepo{s: r.s, tx: tx}
	productRepo := &ProductRepo{s: r.s, tx: tx}

	if err := fn(movRepo, productRepo); err != nil {
		return err
	}
	r.s.state = tx
	return nil
}
