package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeEntrada = "ENTRADA" // cantidad positiva
	MovementTypeSalida  = "SALIDA"  // cantidad negativa
)

// Subtipos de movimiento: variante cerrada para que la lógica de reversa
// pueda hacer switch exhaustivo en lugar de comparar strings sueltos.
const (
	MovementSubtypePurchase          = "COMPRA"
	MovementSubtypeSale              = "VENTA"
	MovementSubtypePurchaseAnnulment = "ANULACION_COMPRA"
	MovementSubtypeSaleAnnulment     = "ANULACION_VENTA"
	MovementSubtypePurchaseEdit      = "AJUSTE_COMPRA"
)

// StockMovement es el registro inmutable de auditoría de todo cambio de
// cantidad. Nunca se actualiza ni se borra después de creado: es la fuente
// de verdad de "qué pasó" con el inventario.
type StockMovement struct {
	ID          string
	ProductID   string
	LotID       *string         // obligatorio para subtipo VENTA
	Quantity    decimal.Decimal // positiva = entrada, negativa = salida
	Type        string          // ENTRADA | SALIDA
	Subtype     string
	UnitCost    decimal.Decimal
	TotalCost   decimal.Decimal
	ReferenceID *string // id de la compra o venta que lo originó
	Date        time.Time
	CreatedAt   time.Time
	CreatedBy   string // UserID
}
