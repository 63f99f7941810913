package postgres

import (
	"context"
	"fmt"

	"github.com/kmuentes1145/act8/internal/domain"
	"github.com/kmuentes1145/act8/internal/domain/entity"
	"github.com/kmuentes1145/act8/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo persistencia del libro de movimientos (solo INSERT y lecturas).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el repositorio. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta el movimiento; la base asigna id y fecha.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO movimientos (producto_id, tipo, cantidad)
		VALUES ($1, $2, $3)
		RETURNING id, fecha`,
		m.ProductID, m.Type, m.Quantity,
	).Scan(&m.ID, &m.Date)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		case isCheckViolation(err), isOutOfRange(err):
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// List devuelve todos los movimientos con el nombre del producto, más recientes primero.
func (r *MovementRepo) List(ctx context.Context) ([]*entity.MovementDetail, error) {
	return r.list(ctx, `
		SELECT m.id, m.producto_id, m.tipo, m.cantidad, m.fecha, p.nombre
		FROM movimientos m
		JOIN productos p ON p.id = m.producto_id
		ORDER BY m.fecha DESC, m.id DESC`)
}

// ListByProduct igual que List, filtrado por producto.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.MovementDetail, error) {
	return r.list(ctx, `
		SELECT m.id, m.producto_id, m.tipo, m.cantidad, m.fecha, p.nombre
		FROM movimientos m
		JOIN productos p ON p.id = m.producto_id
		WHERE m.producto_id = $1
		ORDER BY m.fecha DESC, m.id DESC`, productID)
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.MovementDetail, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.MovementDetail
	for rows.Next() {
		var d entity.MovementDetail
		if err := rows.Scan(&d.ID, &d.ProductID, &d.Type, &d.Quantity, &d.Date, &d.ProductName); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// BalanceByProduct suma entradas y salidas de un producto.
func (r *MovementRepo) BalanceByProduct(ctx context.Context, productID int64) (entity.LedgerBalance, error) {
	b := entity.LedgerBalance{ProductID: productID}
	err := r.q.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(cantidad) FILTER (WHERE tipo = 'entrada'), 0),
			COALESCE(SUM(cantidad) FILTER (WHERE tipo = 'salida'), 0),
			COUNT(*)
		FROM movimientos
		WHERE producto_id = $1`, productID,
	).Scan(&b.Inbound, &b.Outbound, &b.Count)
	if err != nil {
		return b, fmt.Errorf("balance movements: %w", err)
	}
	return b, nil
}
