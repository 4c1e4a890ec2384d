package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

var _ repository.StockLotRepository = (*StockLotRepo)(nil)

// StockLotRepo implementación del puerto StockLotRepository sobre PostgreSQL (usable con pool o tx).
type StockLotRepo struct {
	q Querier
}

// NewStockLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLotRepository(q Querier) *StockLotRepo {
	return &StockLotRepo{q: q}
}

const lotColumns = `id, product_id, purchase_item_id, supplier_id, quantity, original_quantity,
		cost_per_unit, entry_date, expiry_date, status, created_at, updated_at`

func scanLot(row pgx.Row) (*entity.StockLot, error) {
	var l entity.StockLot
	err := row.Scan(&l.ID, &l.ProductID, &l.PurchaseItemID, &l.SupplierID, &l.Quantity,
		&l.OriginalQuantity, &l.CostPerUnit, &l.EntryDate, &l.ExpiryDate, &l.Status,
		&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan stock lot: %w", err)
	}
	return &l, nil
}

// Create persiste un lote nuevo.
func (r *StockLotRepo) Create(lot *entity.StockLot) error {
	query := `
		INSERT INTO stock_lots (id, product_id, purchase_item_id, supplier_id, quantity,
			original_quantity, cost_per_unit, entry_date, expiry_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.ProductID, lot.PurchaseItemID, lot.SupplierID, lot.Quantity,
		lot.OriginalQuantity, lot.CostPerUnit, lot.EntryDate, lot.ExpiryDate, lot.Status,
		lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *StockLotRepo) GetByID(id string) (*entity.StockLot, error) {
	query := `SELECT ` + lotColumns + ` FROM stock_lots WHERE id = $1`
	return scanLot(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate bloquea la fila del lote.
func (r *StockLotRepo) GetForUpdate(id string) (*entity.StockLot, error) {
	query := `SELECT ` + lotColumns + ` FROM stock_lots WHERE id = $1 FOR UPDATE`
	return scanLot(r.q.QueryRow(context.Background(), query, id))
}

// Update actualiza cantidad, cantidad original, costo y estado del lote.
func (r *StockLotRepo) Update(lot *entity.StockLot) error {
	query := `
		UPDATE stock_lots SET quantity = $2, original_quantity = $3, cost_per_unit = $4,
			status = $5, expiry_date = $6, updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.Quantity, lot.OriginalQuantity, lot.CostPerUnit, lot.Status, lot.ExpiryDate,
	)
	if err != nil {
		return fmt.Errorf("update stock lot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el lote (solo al quitar una línea de compra intacta).
func (r *StockLotRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM stock_lots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock lot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListActiveByProduct devuelve lotes ACTIVOS con unidades en orden FIFO.
func (r *StockLotRepo) ListActiveByProduct(productID string) ([]*entity.StockLot, error) {
	query := `SELECT ` + lotColumns + `
		FROM stock_lots
		WHERE product_id = $1 AND status = $2 AND quantity > 0
		ORDER BY entry_date, id
		FOR UPDATE`
	return r.list(query, productID, entity.LotStatusActive)
}

// ListByProduct devuelve todos los lotes del producto en orden FIFO.
func (r *StockLotRepo) ListByProduct(productID string) ([]*entity.StockLot, error) {
	query := `SELECT ` + lotColumns + `
		FROM stock_lots WHERE product_id = $1 ORDER BY entry_date, id`
	return r.list(query, productID)
}

func (r *StockLotRepo) list(query string, args ...any) ([]*entity.StockLot, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLot
	for rows.Next() {
		var l entity.StockLot
		if err := rows.Scan(&l.ID, &l.ProductID, &l.PurchaseItemID, &l.SupplierID, &l.Quantity,
			&l.OriginalQuantity, &l.CostPerUnit, &l.EntryDate, &l.ExpiryDate, &l.Status,
			&l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock lot: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
