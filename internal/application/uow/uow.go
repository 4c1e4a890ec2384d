// Package uow define el puerto de unidad de trabajo: cada operación de
// negocio (compra, venta, anulación, movimiento de caja) corre completa o no
// corre, con repositorios atados a la misma transacción.
package uow

import (
	"context"

	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Products  repository.ProductRepository
	Lots      repository.StockLotRepository
	StockMovs repository.StockMovementRepository
	CashMovs  repository.CashMovementRepository
	Purchases repository.PurchaseRepository
	Sales     repository.SaleRepository
	Suppliers repository.SupplierRepository
	Sequences repository.SequenceRepository
}

// Runner ejecuta fn dentro de una transacción: Commit si fn devuelve nil,
// Rollback si devuelve error. Garantiza la atomicidad del motor de
// inventario y caja.
type Runner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
