package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// Los movimientos son de solo inserción.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const stockMovementColumns = `id, product_id, lot_id, quantity, type, subtype,
		unit_cost, total_cost, reference_id, date, created_at, created_by`

// Create persiste un movimiento de stock.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, product_id, lot_id, quantity, type, subtype,
			unit_cost, total_cost, reference_id, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.LotID, movement.Quantity,
		movement.Type, movement.Subtype, movement.UnitCost, movement.TotalCost,
		movement.ReferenceID, movement.Date, movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + stockMovementColumns + ` FROM stock_movements WHERE id = $1`
	var m entity.StockMovement
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ProductID, &m.LotID, &m.Quantity, &m.Type, &m.Subtype,
		&m.UnitCost, &m.TotalCost, &m.ReferenceID, &m.Date, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return &m, nil
}

// ListByProduct lista movimientos de un producto, filtrando por rango de fechas.
func (r *StockMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + stockMovementColumns + `
		FROM stock_movements
		WHERE product_id = $1 AND ($2::timestamptz IS NULL OR date >= $2) AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC, created_at DESC LIMIT $4 OFFSET $5`
	return r.list(query, productID, from, to, limit, offset)
}

// ListByReferenceAndSubtype devuelve los movimientos de un documento con el
// subtipo dado, en orden de creación.
func (r *StockMovementRepo) ListByReferenceAndSubtype(referenceID, subtype string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + stockMovementColumns + `
		FROM stock_movements WHERE reference_id = $1 AND subtype = $2 ORDER BY created_at`
	return r.list(query, referenceID, subtype)
}

// List lista todos los movimientos, filtrando por rango de fechas.
func (r *StockMovementRepo) List(from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + stockMovementColumns + `
		FROM stock_movements
		WHERE ($1::timestamptz IS NULL OR date >= $1) AND ($2::timestamptz IS NULL OR date <= $2)
		ORDER BY date DESC, created_at DESC LIMIT $3 OFFSET $4`
	return r.list(query, from, to, limit, offset)
}

func (r *StockMovementRepo) list(query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.LotID, &m.Quantity, &m.Type, &m.Subtype,
			&m.UnitCost, &m.TotalCost, &m.ReferenceID, &m.Date, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
