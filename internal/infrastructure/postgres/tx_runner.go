package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/comercio-api/internal/application/uow"
)

var _ uow.Runner = (*TxRunner)(nil)

// TxRunner ejecuta unidades de trabajo dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con todos los repos atados a la tx
// y hace Commit o Rollback según el resultado.
func (r *TxRunner) Run(ctx context.Context, fn func(repos uow.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos arma el paquete de repositorios sobre un Querier (pool o tx).
func NewRepos(q Querier) uow.Repos {
	return uow.Repos{
		Products:  NewProductRepository(q),
		Lots:      NewStockLotRepository(q),
		StockMovs: NewStockMovementRepository(q),
		CashMovs:  NewCashMovementRepository(q),
		Purchases: NewPurchaseRepository(q),
		Sales:     NewSaleRepository(q),
		Suppliers: NewSupplierRepository(q),
		Sequences: NewSequenceRepository(q),
	}
}
