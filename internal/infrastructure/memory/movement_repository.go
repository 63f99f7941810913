package memory

import (
	"context"

	"github.com/kmuentes1145/act8/internal/domain"
	"github.com/kmuentes1145/act8/internal/domain/entity"
	"github.com/kmuentes1145/act8/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación en memoria del libro de movimientos.
type MovementRepo struct {
	s  *Store
	tx *state
}

// NewMovementRepository construye el repositorio sobre el Store.
func NewMovementRepository(s *Store) *MovementRepo {
	return &MovementRepo{s: s}
}

func (r *MovementRepo) run(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.s.view(fn)
}

// Create agrega el movimiento al libro. El producto debe existir (como la FK en PostgreSQL).
func (r *MovementRepo) Create(_ context.Context, movement *entity.Movement) error {
	return r.run(func(st *state) error {
		if _, ok := st.products[movement.ProductID]; !ok {
			return domain.ErrNotFound
		}
		if movement.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
		if movement.Type != entity.MovementInbound && movement.Type != entity.MovementOutbound {
			return domain.ErrInvalidInput
		}
		movement.ID = st.nextMovementID
		st.nextMovementID++
		movement.Date = st.stamp(r.s.clock)
		st.movements = append(st.movements, *movement)
		return nil
	})
}

// List devuelve todos los movimientos con nombre de producto, más recientes primero.
func (r *MovementRepo) List(_ context.Context) ([]*entity.MovementDetail, error) {
	var list []*entity.MovementDetail
	err := r.run(func(st *state) error {
		list = details(st, func(entity.Movement) bool { return true })
		return nil
	})
	return list, err
}

// ListByProduct devuelve los movimientos de un producto, más recientes primero.
func (r *MovementRepo) ListByProduct(_ context.Context, productID int64) ([]*entity.MovementDetail, error) {
	var list []*entity.MovementDetail
	err := r.run(func(st *state) error {
		list = details(st, func(m entity.Movement) bool { return m.ProductID == productID })
		return nil
	})
	return list, err
}

// BalanceByProduct suma entradas y salidas de un producto.
func (r *MovementRepo) BalanceByProduct(_ context.Context, productID int64) (entity.LedgerBalance, error) {
	b := entity.LedgerBalance{ProductID: productID}
	err := r.run(func(st *state) error {
		for _, m := range st.movements {
			if m.ProductID != productID {
				continue
			}
			b.Count++
			if d := m.Delta(); d < 0 {
				b.Outbound -= d
			} else {
				b.Inbound += d
			}
		}
		return nil
	})
	return b, err
}

// details recorre el libro de atrás hacia adelante: fecha e ID no decrecen con la inserción.
func details(st *state, keep func(entity.Movement) bool) []*entity.MovementDetail {
	out := make([]*entity.MovementDetail, 0)
	for i := len(st.movements) - 1; i >= 0; i-- {
		m := st.movements[i]
		if !keep(m) {
			continue
		}
		out = append(out, &entity.MovementDetail{Movement: m, ProductName: st.products[m.ProductID].Name})
	}
	return out
}
