package repository

import (
	"time"

	"github.com/jhoicas/comercio-api/internal/domain/entity"
)

// CashMovementRepository define el puerto de persistencia para CashMovement.
//
// El store asigna Seq (orden de inserción) en Create y debe preservar el
// orden (Date, Seq) en las consultas de rango: de él depende la cadena de
// saldos.
type CashMovementRepository interface {
	Create(movement *entity.CashMovement) error
	GetByID(id string) (*entity.CashMovement, error)
	// GetByReference devuelve el movimiento generado por un documento
	// (venta/compra), nil si no existe.
	GetByReference(referenceID string) (*entity.CashMovement, error)
	Update(movement *entity.CashMovement) error
	// UpdateBalances persiste solo PreviousBalance/NewBalance (campos derivados).
	UpdateBalances(movement *entity.CashMovement) error
	Delete(id string) error
	// LastBefore devuelve el último movimiento con Date estrictamente anterior
	// a date en orden (Date, Seq); nil si no hay ninguno.
	LastBefore(date time.Time) (*entity.CashMovement, error)
	// ListFrom devuelve los movimientos con Date >= date en orden (Date, Seq),
	// bloqueando el rango para el recálculo (FOR UPDATE en PostgreSQL).
	ListFrom(date time.Time) ([]*entity.CashMovement, error)
	List(from, to *time.Time, limit, offset int) ([]*entity.CashMovement, error)
}
