package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusPaid     = "PAGADA"
	SaleStatusAnnulled = "ANULADA"
)

// Sale es el documento de venta. Fija precios al momento de la venta y es
// dueño (vía ReferenceID) de los movimientos de stock que consumió.
type Sale struct {
	ID           string // consecutivo legible: V-2026-00035
	CustomerName string
	Date         time.Time
	Subtotal     decimal.Decimal // suma de líneas
	DeliveryCost decimal.Decimal
	TotalAmount  decimal.Decimal // Subtotal + DeliveryCost
	TotalCost    decimal.Decimal // costo FIFO total
	Profit       decimal.Decimal // Subtotal - TotalCost
	Status       string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Items        []*SaleItem
}

// SaleItem es una línea de venta. UnitCost es el costo promedio ponderado
// que devolvió el consumo FIFO; con él se calcula la utilidad por línea.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	UnitCost  decimal.Decimal
}
