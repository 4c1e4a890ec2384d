package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLotResponse lote en respuestas de consulta.
type StockLotResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	OriginalQuantity decimal.Decimal `json:"original_quantity"`
	CostPerUnit      decimal.Decimal `json:"cost_per_unit"`
	EntryDate        time.Time       `json:"entry_date"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
	Status           string          `json:"status"`
}

// StockMovementResponse movimiento de stock en respuestas de consulta.
type StockMovementResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	LotID       *string         `json:"lot_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Type        string          `json:"type"`
	Subtype     string          `json:"subtype"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	ReferenceID *string         `json:"reference_id,omitempty"`
	Date        time.Time       `json:"date"`
	CreatedBy   string          `json:"created_by,omitempty"`
}
