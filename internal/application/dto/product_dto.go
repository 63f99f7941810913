package dto

import "github.com/shopspring/decimal"

// ProductRequest entrada para crear o reemplazar un producto (POST y PUT /productos).
// Precio y stock son punteros para distinguir "ausente" de cero.
type ProductRequest struct {
	Name        string           `json:"nombre" validate:"required,max=100"`
	Description string           `json:"descripcion"`
	Category    string           `json:"categoria" validate:"max=50"`
	Price       *decimal.Decimal `json:"precio" validate:"required,gte=0"`
	Stock       *int             `json:"stock" validate:"required,gte=0,max=2147483647"`
	Code        *string          `json:"codigo" validate:"omitempty,max=50"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Category    string          `json:"categoria"`
	Price       decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	Code        *string         `json:"codigo"`
}

// ReconciliationResponse compara el stock con el saldo del libro de movimientos.
type ReconciliationResponse struct {
	ProductID     int64 `json:"producto_id"`
	Stock         int   `json:"stock"`
	Inbound       int   `json:"total_entradas"`
	Outbound      int   `json:"total_salidas"`
	LedgerBalance int   `json:"saldo_movimientos"`
	Movements     int   `json:"movimientos"`
	Consistent    bool  `json:"consistente"`
}
