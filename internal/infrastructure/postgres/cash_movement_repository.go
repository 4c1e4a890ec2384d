package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

var _ repository.CashMovementRepository = (*CashMovementRepo)(nil)

// CashMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
//
// seq es BIGSERIAL: el orden de inserción lo asigna la base y Create lo lee
// con RETURNING. Todas las consultas de rango ordenan por (date, seq).
type CashMovementRepo struct {
	q Querier
}

// NewCashMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashMovementRepository(q Querier) *CashMovementRepo {
	return &CashMovementRepo{q: q}
}

const cashMovementColumns = `id, type, amount, category, description, date, seq,
		previous_balance, new_balance, reference_id, created_by, created_at`

func scanCashMovement(row pgx.Row) (*entity.CashMovement, error) {
	var m entity.CashMovement
	err := row.Scan(&m.ID, &m.Type, &m.Amount, &m.Category, &m.Description, &m.Date, &m.Seq,
		&m.PreviousBalance, &m.NewBalance, &m.ReferenceID, &m.CreatedBy, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan cash movement: %w", err)
	}
	return &m, nil
}

// Create persiste un movimiento de caja y asigna Seq desde la secuencia de la tabla.
func (r *CashMovementRepo) Create(movement *entity.CashMovement) error {
	query := `
		INSERT INTO cash_movements (id, type, amount, category, description, date,
			previous_balance, new_balance, reference_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING seq`
	err := r.q.QueryRow(context.Background(), query,
		movement.ID, movement.Type, movement.Amount, movement.Category, movement.Description,
		movement.Date, movement.PreviousBalance, movement.NewBalance, movement.ReferenceID,
		movement.CreatedBy, movement.CreatedAt,
	).Scan(&movement.Seq)
	if err != nil {
		return fmt.Errorf("insert cash movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *CashMovementRepo) GetByID(id string) (*entity.CashMovement, error) {
	query := `SELECT ` + cashMovementColumns + ` FROM cash_movements WHERE id = $1`
	return scanCashMovement(r.q.QueryRow(context.Background(), query, id))
}

// GetByReference obtiene el movimiento generado por un documento (venta/compra).
func (r *CashMovementRepo) GetByReference(referenceID string) (*entity.CashMovement, error) {
	query := `SELECT ` + cashMovementColumns + ` FROM cash_movements WHERE reference_id = $1`
	return scanCashMovement(r.q.QueryRow(context.Background(), query, referenceID))
}

// Update actualiza los campos editables de un movimiento manual.
func (r *CashMovementRepo) Update(movement *entity.CashMovement) error {
	query := `
		UPDATE cash_movements SET type = $2, amount = $3, category = $4, description = $5,
			date = $6, previous_balance = $7, new_balance = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.Type, movement.Amount, movement.Category, movement.Description,
		movement.Date, movement.PreviousBalance, movement.NewBalance,
	)
	if err != nil {
		return fmt.Errorf("update cash movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateBalances persiste solo los saldos derivados (recálculo de la cadena).
func (r *CashMovementRepo) UpdateBalances(movement *entity.CashMovement) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE cash_movements SET previous_balance = $2, new_balance = $3 WHERE id = $1`,
		movement.ID, movement.PreviousBalance, movement.NewBalance,
	)
	if err != nil {
		return fmt.Errorf("update cash balances: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un movimiento por ID.
func (r *CashMovementRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM cash_movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cash movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LastBefore devuelve el último movimiento anterior a date en orden (date, seq).
func (r *CashMovementRepo) LastBefore(date time.Time) (*entity.CashMovement, error) {
	query := `SELECT ` + cashMovementColumns + `
		FROM cash_movements WHERE date < $1 ORDER BY date DESC, seq DESC LIMIT 1`
	return scanCashMovement(r.q.QueryRow(context.Background(), query, date))
}

// ListFrom devuelve los movimientos con date >= date en orden (date, seq),
// bloqueando el rango para el recálculo de saldos.
func (r *CashMovementRepo) ListFrom(date time.Time) ([]*entity.CashMovement, error) {
	query := `SELECT ` + cashMovementColumns + `
		FROM cash_movements WHERE date >= $1 ORDER BY date, seq FOR UPDATE`
	return r.list(query, date)
}

// List lista movimientos filtrando por rango de fechas, en orden (date, seq).
func (r *CashMovementRepo) List(from, to *time.Time, limit, offset int) ([]*entity.CashMovement, error) {
	query := `SELECT ` + cashMovementColumns + `
		FROM cash_movements
		WHERE ($1::timestamptz IS NULL OR date >= $1) AND ($2::timestamptz IS NULL OR date <= $2)
		ORDER BY date, seq LIMIT $3 OFFSET $4`
	return r.list(query, from, to, limit, offset)
}

func (r *CashMovementRepo) list(query string, args ...any) ([]*entity.CashMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cash movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashMovement
	for rows.Next() {
		var m entity.CashMovement
		if err := rows.Scan(&m.ID, &m.Type, &m.Amount, &m.Category, &m.Description, &m.Date, &m.Seq,
			&m.PreviousBalance, &m.NewBalance, &m.ReferenceID, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cash movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
