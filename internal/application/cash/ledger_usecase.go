// Package cash implementa el libro de caja: alta, edición y borrado de
// movimientos monetarios con reparación de la cadena de saldos.
package cash

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/uow"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/ledger"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// LedgerUseCase operaciones sobre el libro de caja. Cada operación corre en
// su propia transacción; las variantes *InTx se usan desde los orquestadores
// de compra/venta dentro de la transacción del documento.
type LedgerUseCase struct {
	runner   uow.Runner
	cashRepo repository.CashMovementRepository // atado al pool, solo lecturas
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(runner uow.Runner, cashRepo repository.CashMovementRepository) *LedgerUseCase {
	return &LedgerUseCase{runner: runner, cashRepo: cashRepo}
}

// Append registra un movimiento manual de caja. La fecha puede ser pasada:
// el movimiento se encadena en su posición cronológica y todo lo posterior
// se recalcula hacia adelante.
func (uc *LedgerUseCase) Append(ctx context.Context, in dto.CreateCashMovementRequest, userID string) (*entity.CashMovement, error) {
	if in.Type != entity.CashTypeEntrada && in.Type != entity.CashTypeSalida {
		return nil, domain.ErrInvalidInput
	}
	if in.Amount.IsZero() || in.Category == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	m := &entity.CashMovement{
		ID:          uuid.New().String(),
		Type:        in.Type,
		Amount:      ledger.SignedAmount(in.Type, in.Amount.Abs()),
		Category:    in.Category,
		Description: in.Description,
		Date:        date,
		CreatedBy:   userID,
		CreatedAt:   now,
	}

	err := uc.runner.Run(ctx, func(r uow.Repos) error {
		return AppendInTx(r, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Update edita un movimiento manual. Cambiar monto, tipo o fecha equivale a
// borrar y reinsertar en la misma posición: se recalcula desde la fecha más
// antigua afectada. Los movimientos generados por documentos no se editan a
// mano (su monto solo cambia vía la edición del documento).
func (uc *LedgerUseCase) Update(ctx context.Context, id string, in dto.UpdateCashMovementRequest, userID string) (*entity.CashMovement, error) {
	var out *entity.CashMovement
	err := uc.runner.Run(ctx, func(r uow.Repos) error {
		m, err := r.CashMovs.GetByID(id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if !m.Manual() {
			return fmt.Errorf("%w: el movimiento pertenece al documento %s", domain.ErrInvalidInput, *m.ReferenceID)
		}

		oldDate := m.Date
		movType := m.Type
		if in.Type != nil {
			movType = *in.Type
			if movType != entity.CashTypeEntrada && movType != entity.CashTypeSalida {
				return domain.ErrInvalidInput
			}
		}
		amount := m.Amount.Abs()
		if in.Amount != nil {
			if in.Amount.IsZero() {
				return domain.ErrInvalidInput
			}
			amount = in.Amount.Abs()
		}
		m.Type = movType
		m.Amount = ledger.SignedAmount(movType, amount)
		if in.Category != nil {
			m.Category = *in.Category
		}
		if in.Description != nil {
			m.Description = *in.Description
		}
		if in.Date != nil {
			m.Date = *in.Date
		}
		if err := r.CashMovs.Update(m); err != nil {
			return err
		}

		from := oldDate
		if m.Date.Before(from) {
			from = m.Date
		}
		if err := recalcFrom(r, from); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete elimina un movimiento manual y repara la cadena desde su fecha.
func (uc *LedgerUseCase) Delete(ctx context.Context, id string) error {
	return uc.runner.Run(ctx, func(r uow.Repos) error {
		m, err := r.CashMovs.GetByID(id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if !m.Manual() {
			return fmt.Errorf("%w: el movimiento pertenece al documento %s", domain.ErrInvalidInput, *m.ReferenceID)
		}
		if err := r.CashMovs.Delete(m.ID); err != nil {
			return err
		}
		return recalcFrom(r, m.Date)
	})
}

// List devuelve movimientos en orden cronológico (Date, Seq).
func (uc *LedgerUseCase) List(from, to *time.Time, limit, offset int) ([]*entity.CashMovement, error) {
	return uc.cashRepo.List(from, to, limit, offset)
}

// AppendInTx inserta un movimiento en la transacción del caller y repara la
// cadena desde su fecha. El store asigna Seq en Create, así que el movimiento
// nuevo queda después de los existentes de la misma fecha.
func AppendInTx(r uow.Repos, m *entity.CashMovement) error {
	if err := r.CashMovs.Create(m); err != nil {
		return err
	}
	return recalcFrom(r, m.Date)
}

// DeleteByReferenceInTx borra el movimiento generado por un documento
// (anulación de venta/compra) y repara la cadena: el efecto de caja del
// documento desaparece como si nunca hubiera existido, no se inserta un
// contraasiento.
func DeleteByReferenceInTx(r uow.Repos, referenceID string) error {
	m, err := r.CashMovs.GetByReference(referenceID)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("%w: documento %s sin movimiento de caja", domain.ErrIntegrity, referenceID)
	}
	if err := r.CashMovs.Delete(m.ID); err != nil {
		return err
	}
	return recalcFrom(r, m.Date)
}

// UpdateReferenceAmountInTx reescribe el monto del movimiento de un documento
// (edición de compra con nuevo total) y repara la cadena desde su fecha.
func UpdateReferenceAmountInTx(r uow.Repos, referenceID string, newAmount decimal.Decimal) error {
	m, err := r.CashMovs.GetByReference(referenceID)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("%w: documento %s sin movimiento de caja", domain.ErrIntegrity, referenceID)
	}
	m.Amount = ledger.SignedAmount(m.Type, newAmount.Abs())
	if err := r.CashMovs.Update(m); err != nil {
		return err
	}
	return recalcFrom(r, m.Date)
}

// recalcFrom repara la cadena de saldos desde una fecha: carga la cola
// afectada (Date >= from, bloqueada), siembra con el saldo del último
// movimiento anterior y pliega hacia adelante. Solo persiste las filas cuyo
// par de saldos cambió.
func recalcFrom(r uow.Repos, from time.Time) error {
	pred, err := r.CashMovs.LastBefore(from)
	if err != nil {
		return err
	}
	seed := decimal.Zero
	if pred != nil {
		seed = pred.NewBalance
	}

	tail, err := r.CashMovs.ListFrom(from)
	if err != nil {
		return err
	}

	prevBefore := make([]decimal.Decimal, len(tail))
	newBefore := make([]decimal.Decimal, len(tail))
	for i, m := range tail {
		prevBefore[i] = m.PreviousBalance
		newBefore[i] = m.NewBalance
	}
	ledger.Rebalance(seed, tail)
	for i, m := range tail {
		if m.PreviousBalance.Equal(prevBefore[i]) && m.NewBalance.Equal(newBefore[i]) {
			continue
		}
		if err := r.CashMovs.UpdateBalances(m); err != nil {
			return err
		}
	}
	return nil
}
