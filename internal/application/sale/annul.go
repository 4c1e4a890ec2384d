package sale

import (
	"context"
	"time"

	"github.com/jhoicas/comercio-api/internal/application/cash"
	"github.com/jhoicas/comercio-api/internal/application/inventory"
	"github.com/jhoicas/comercio-api/internal/application/uow"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
)

// Annul anula una venta: revierte cada consumo FIFO sobre su lote original
// (dejando el movimiento espejo ANULACION_VENTA), borra el movimiento de
// caja del documento (el efecto de caja se erase, no se contraasienta) y
// marca la venta ANULADA. Reintentar la anulación es un error de idempotencia.
func (uc *UseCase) Annul(ctx context.Context, id, userID string) (*entity.Sale, error) {
	var out *entity.Sale
	err := uc.runner.Run(ctx, func(r uow.Repos) error {
		s, err := r.Sales.GetByID(id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if s.Status == entity.SaleStatusAnnulled {
			return domain.ErrAlreadyAnnulled
		}

		movs, err := r.StockMovs.ListByReferenceAndSubtype(s.ID, entity.MovementSubtypeSale)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, mov := range movs {
			if err := inventory.ReverseConsumptionInTx(r, mov, now, userID); err != nil {
				return err
			}
		}

		if err := cash.DeleteByReferenceInTx(r, s.ID); err != nil {
			return err
		}

		if err := r.Sales.UpdateStatus(s.ID, entity.SaleStatusAnnulled); err != nil {
			return err
		}
		s.Status = entity.SaleStatusAnnulled
		s.UpdatedAt = now
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
