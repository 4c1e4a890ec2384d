package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote de inventario.
const (
	LotStatusActive   = "ACTIVO"    // con unidades disponibles
	LotStatusDepleted = "AGOTADO"   // consumido por ventas (Quantity = 0)
	LotStatusDeleted  = "ELIMINADO" // anulado antes de consumirse
	LotStatusExpired  = "VENCIDO"
)

// StockLot representa una recepción física de inventario (una línea de compra).
// CostPerUnit y OriginalQuantity quedan fijos al recibir el lote; Quantity baja
// con las ventas (FIFO) y sube al anular una venta.
// Invariante: 0 <= Quantity <= OriginalQuantity.
type StockLot struct {
	ID               string
	ProductID        string
	PurchaseItemID   *string // línea de compra que creó el lote
	SupplierID       *string
	Quantity         decimal.Decimal // unidades restantes
	OriginalQuantity decimal.Decimal // inmutable
	CostPerUnit      decimal.Decimal // inmutable, fijado en la recepción
	EntryDate        time.Time       // fecha de la compra, no de inserción
	ExpiryDate       *time.Time
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// UnitsSold devuelve las unidades ya consumidas del lote.
func (l *StockLot) UnitsSold() decimal.Decimal {
	return l.OriginalQuantity.Sub(l.Quantity)
}

// Untouched indica si el lote está intacto desde la recepción
// (condición para poder anular la compra que lo creó).
func (l *StockLot) Untouched() bool {
	return l.Quantity.Equal(l.OriginalQuantity)
}
