package dto

import "time"

// MovementRequest body para POST /movimientos/entrada y /movimientos/salida.
type MovementRequest struct {
	ProductID int64 `json:"producto_id" validate:"required,gt=0"`
	Quantity  int   `json:"cantidad" validate:"required,gt=0,max=2147483647"`
}

// MovementResponse salida de un movimiento. StockActual solo se informa al registrarlo.
type MovementResponse struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"producto_id"`
	ProductName string    `json:"producto,omitempty"`
	Type        string    `json:"tipo"`
	Quantity    int       `json:"cantidad"`
	Date        time.Time `json:"fecha"`
	StockActual *int      `json:"stock_actual,omitempty"`
}

// StockEvent mensaje difundido por websocket tras cada movimiento confirmado.
type StockEvent struct {
	Type        string           `json:"type"`
	Movement    MovementResponse `json:"movimiento"`
	StockActual int              `json:"stock_actual"`
}
