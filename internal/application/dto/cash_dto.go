package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCashMovementRequest alta manual de movimiento de caja.
// Date vacía = hoy; una fecha pasada dispara el recálculo hacia adelante.
type CreateCashMovementRequest struct {
	Type        string          `json:"type" validate:"required,oneof=ENTRADA SALIDA"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Description string          `json:"description"`
	Date        *time.Time      `json:"date,omitempty"`
}

// UpdateCashMovementRequest edición de movimiento manual. Campos nil no cambian.
type UpdateCashMovementRequest struct {
	Type        *string          `json:"type,omitempty" validate:"omitempty,oneof=ENTRADA SALIDA"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
	Date        *time.Time       `json:"date,omitempty"`
}

// CashMovementResponse movimiento con su par de saldos.
type CashMovementResponse struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Category        string          `json:"category"`
	Description     string          `json:"description,omitempty"`
	Date            time.Time       `json:"date"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	ReferenceID     *string         `json:"reference_id,omitempty"`
}
