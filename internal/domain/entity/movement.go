package entity

import "time"

// Tipos de movimiento de inventario (valores persistidos).
const (
	MovementInbound  = "entrada"
	MovementOutbound = "salida"
)

// Movement es un registro del libro de movimientos. Solo se crea; nunca se edita.
type Movement struct {
	ID        int64
	ProductID int64
	Type      string
	Quantity  int // siempre > 0; el signo lo da Type
	Date      time.Time
}

// Delta devuelve el efecto del movimiento sobre el stock.
func (m *Movement) Delta() int {
	if m.Type == MovementOutbound {
		return -m.Quantity
	}
	return m.Quantity
}

// MovementDetail es un movimiento junto con el nombre del producto.
type MovementDetail struct {
	Movement
	ProductName string
}

// LedgerBalance resume los movimientos de un producto.
type LedgerBalance struct {
	ProductID int64
	Inbound   int
	Outbound  int
	Count     int
}

// Net devuelve entradas menos salidas.
func (b LedgerBalance) Net() int {
	return b.Inbound - b.Outbound
}
