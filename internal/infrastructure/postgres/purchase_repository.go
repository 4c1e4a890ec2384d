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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación sobre PostgreSQL (usable con pool o tx).
// Cabecera en purchases, líneas en purchase_items.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `id, invoice_number, supplier_id, date, total_amount, status,
		created_by, created_at, updated_at`

// Create persiste cabecera y líneas.
func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	query := `
		INSERT INTO purchases (id, invoice_number, supplier_id, date, total_amount, status,
			created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.InvoiceNumber, purchase.SupplierID, purchase.Date,
		purchase.TotalAmount, purchase.Status, purchase.CreatedBy,
		purchase.CreatedAt, purchase.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	for _, item := range purchase.Items {
		if err := r.CreateItem(item); err != nil {
			return err
		}
	}
	return nil
}

// GetByID devuelve la compra hidratada con sus líneas; nil si no existe.
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`
	var p entity.Purchase
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.InvoiceNumber, &p.SupplierID, &p.Date, &p.TotalAmount, &p.Status,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	items, err := r.itemsByPurchase(id)
	if err != nil {
		return nil, err
	}
	p.Items = items
	return &p, nil
}

// UpdateHeader actualiza la cabecera (total, estado, proveedor, fecha).
func (r *PurchaseRepo) UpdateHeader(purchase *entity.Purchase) error {
	query := `
		UPDATE purchases SET supplier_id = $2, date = $3, total_amount = $4, status = $5, updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.SupplierID, purchase.Date, purchase.TotalAmount, purchase.Status,
	)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateItem persiste una línea de compra.
func (r *PurchaseRepo) CreateItem(item *entity.PurchaseItem) error {
	query := `
		INSERT INTO purchase_items (id, purchase_id, product_id, quantity, unit_cost, lot_id)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.PurchaseID, item.ProductID, item.Quantity, item.UnitCost, item.LotID,
	)
	if err != nil {
		return fmt.Errorf("insert purchase item: %w", err)
	}
	return nil
}

// UpdateItem actualiza cantidad y costo de una línea.
func (r *PurchaseRepo) UpdateItem(item *entity.PurchaseItem) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE purchase_items SET quantity = $2, unit_cost = $3 WHERE id = $1`,
		item.ID, item.Quantity, item.UnitCost,
	)
	if err != nil {
		return fmt.Errorf("update purchase item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteItem elimina una línea de compra.
func (r *PurchaseRepo) DeleteItem(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM purchase_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista compras hidratadas con paginación, más recientes primero.
func (r *PurchaseRepo) List(limit, offset int) ([]*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + `
		FROM purchases ORDER BY date DESC, invoice_number DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(&p.ID, &p.InvoiceNumber, &p.SupplierID, &p.Date, &p.TotalAmount,
			&p.Status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range list {
		items, err := r.itemsByPurchase(p.ID)
		if err != nil {
			return nil, err
		}
		p.Items = items
	}
	return list, nil
}

func (r *PurchaseRepo) itemsByPurchase(purchaseID string) ([]*entity.PurchaseItem, error) {
	query := `
		SELECT id, purchase_id, product_id, quantity, unit_cost, lot_id
		FROM purchase_items WHERE purchase_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	var items []*entity.PurchaseItem
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.Quantity, &it.UnitCost, &it.LotID); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}
