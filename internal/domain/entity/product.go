package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del negocio.
// Stock es el agregado de los lotes ACTIVOS; solo se modifica a través de
// operaciones de lotes/movimientos (compras, ventas, anulaciones), nunca directo.
type Product struct {
	ID        string
	SKU       string // código único
	Name      string
	Stock     decimal.Decimal // suma de Quantity de lotes ACTIVOS
	Price     decimal.Decimal // precio de venta
	Cost      decimal.Decimal // último costo de adquisición
	CreatedAt time.Time
	UpdatedAt time.Time
}
