package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrUnauthorized       = errors.New("no autorizado")

	// ErrInsufficientStock: el consumo FIFO no pudo cubrir la cantidad pedida.
	// Preferir InsufficientStockError para conservar el contexto.
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrLotInUse: el lote ya tiene unidades vendidas y no puede anularse/borrarse.
	ErrLotInUse = errors.New("el lote tiene unidades vendidas")

	// ErrLineInUse: la edición reduciría una línea de compra por debajo de lo ya vendido.
	ErrLineInUse = errors.New("la línea tiene unidades vendidas")

	// ErrAlreadyAnnulled: guarda de idempotencia contra doble anulación.
	ErrAlreadyAnnulled = errors.New("el documento ya está anulado")

	// ErrIntegrity: un invariante estructural está roto (bug previo, no error
	// del usuario). Debe tratarse como fatal/alertable, nunca recuperarse en silencio.
	ErrIntegrity = errors.New("invariante de integridad violado")
)

// InsufficientStockError lleva el contexto pedido-vs-disponible de un faltante
// de stock. errors.Is(err, ErrInsufficientStock) lo reconoce.
type InsufficientStockError struct {
	ProductID string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s: pedido %s, disponible %s",
		e.ProductID, e.Requested.String(), e.Available.String())
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
