package entity

import "github.com/shopspring/decimal"

// Product representa un producto del inventario.
// Stock nunca es negativo; solo lo modifican el libro de movimientos o una edición directa.
type Product struct {
	ID          int64
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal // DECIMAL(10,2), no negativo
	Stock       int
	Code        *string // opcional, único entre productos
}
