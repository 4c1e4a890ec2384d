package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest línea de compra: producto, cantidad y costo unitario.
type PurchaseLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid4"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	UnitCost  decimal.Decimal `json:"unit_cost" validate:"required"`
	// ExpiryDate opcional del lote que crea la línea.
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}

// CreatePurchaseRequest alta de compra.
type CreatePurchaseRequest struct {
	SupplierID *string               `json:"supplier_id,omitempty" validate:"omitempty,uuid4"`
	Date       *time.Time            `json:"date,omitempty"` // vacío = hoy
	Lines      []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// UpdatePurchaseRequest edición de compra: el conjunto nuevo de líneas;
// la reconciliación contra las existentes la hace el orquestador.
type UpdatePurchaseRequest struct {
	Lines []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseItemResponse línea de compra en respuestas.
type PurchaseItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LotID     string          `json:"lot_id"`
}

// PurchaseResponse compra hidratada.
type PurchaseResponse struct {
	ID            string                 `json:"id"`
	InvoiceNumber string                 `json:"invoice_number"`
	SupplierID    *string                `json:"supplier_id,omitempty"`
	Date          time.Time              `json:"date"`
	TotalAmount   decimal.Decimal        `json:"total_amount"`
	Status        string                 `json:"status"`
	Items         []PurchaseItemResponse `json:"items"`
}
