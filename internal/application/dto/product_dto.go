package dto

import "github.com/shopspring/decimal"

// CreateProductRequest alta de producto. El stock inicial siempre es cero:
// solo las compras crean inventario.
type CreateProductRequest struct {
	SKU   string          `json:"sku" validate:"required"`
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"required"`
}

// UpdateProductRequest edición de producto (no toca Stock ni Cost).
type UpdateProductRequest struct {
	Name  *string          `json:"name,omitempty"`
	Price *decimal.Decimal `json:"price,omitempty"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID    string          `json:"id"`
	SKU   string          `json:"sku"`
	Name  string          `json:"name"`
	Stock decimal.Decimal `json:"stock"`
	Price decimal.Decimal `json:"price"`
	Cost  decimal.Decimal `json:"cost"`
}

// CreateSupplierRequest alta de proveedor.
type CreateSupplierRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
}

// SupplierResponse proveedor en respuestas.
type SupplierResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}
