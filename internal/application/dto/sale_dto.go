package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta. UnitPrice vacío = precio actual del producto.
type SaleLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid4"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest alta de venta.
type CreateSaleRequest struct {
	CustomerName string            `json:"customer_name"`
	DeliveryCost decimal.Decimal   `json:"delivery_cost"`
	Lines        []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// SaleItemResponse línea de venta en respuestas; UnitCost es el costo FIFO.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// SaleResponse venta hidratada.
type SaleResponse struct {
	ID           string             `json:"id"`
	CustomerName string             `json:"customer_name,omitempty"`
	Date         time.Time          `json:"date"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	DeliveryCost decimal.Decimal    `json:"delivery_cost"`
	TotalAmount  decimal.Decimal    `json:"total_amount"`
	TotalCost    decimal.Decimal    `json:"total_cost"`
	Profit       decimal.Decimal    `json:"profit"`
	Status       string             `json:"status"`
	Items        []SaleItemResponse `json:"items"`
}
