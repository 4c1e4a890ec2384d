package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una compra.
const (
	PurchaseStatusRegistered = "REGISTRADA"
	PurchaseStatusAnnulled   = "ANULADA"
)

// Purchase es el documento de compra a un proveedor. Fija cantidades y costos
// por línea y es dueño de los lotes que creó.
type Purchase struct {
	ID            string
	InvoiceNumber string // consecutivo por año: FC-2026-00012
	SupplierID    *string
	Date          time.Time
	TotalAmount   decimal.Decimal
	Status        string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Items         []*PurchaseItem
}

// PurchaseItem es una línea de compra; LotID apunta al lote que esa línea creó.
type PurchaseItem struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	LotID      string
}
