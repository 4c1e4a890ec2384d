package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de caja.
const (
	CashTypeEntrada = "ENTRADA"
	CashTypeSalida  = "SALIDA"
)

// CashMovement es un movimiento monetario de la caja del negocio.
//
// Amount se guarda con signo (SALIDA negativa), de modo que
// NewBalance = PreviousBalance + Amount vale para ambas direcciones.
// Date es la fecha de negocio, no la de inserción: los movimientos manuales
// pueden insertarse con fecha pasada. Seq es el orden de inserción, asignado
// por el store, y desempata los movimientos con la misma fecha.
//
// Invariante global, ordenando por (Date, Seq):
//
//	NewBalance(i) = PreviousBalance(i) + Amount(i)
//	PreviousBalance(i) = NewBalance(i-1)   (0 para el primero)
type CashMovement struct {
	ID              string
	Type            string          // ENTRADA | SALIDA
	Amount          decimal.Decimal // con signo
	Category        string
	Description     string
	Date            time.Time // fecha de negocio
	Seq             int64     // orden de inserción, monotónico
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
	ReferenceID     *string // nil = manual; no nil = generado por venta/compra
	CreatedBy       string
	CreatedAt       time.Time
}

// Manual indica si el movimiento fue registrado a mano (sin documento asociado).
func (m *CashMovement) Manual() bool {
	return m.ReferenceID == nil
}
