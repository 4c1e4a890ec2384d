package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/comercio-api/internal/application/cash"
	"github.com/jhoicas/comercio-api/internal/application/inventory"
	"github.com/jhoicas/comercio-api/internal/application/uow"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
)

// Annul anula una compra completa. Solo procede si ningún lote del documento
// tiene unidades vendidas: una sola línea tocada rechaza toda la operación.
// Los lotes quedan en cero/ELIMINADO con su movimiento compensatorio, el
// stock se revierte y el movimiento de caja del documento se borra (la
// salida original desaparece, no se inserta una entrada espejo) reparando
// los saldos posteriores.
func (uc *UseCase) Annul(ctx context.Context, id, userID string) (*entity.Purchase, error) {
	var out *entity.Purchase
	err := uc.runner.Run(ctx, func(r uow.Repos) error {
		p, err := r.Purchases.GetByID(id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.Status == entity.PurchaseStatusAnnulled {
			return domain.ErrAlreadyAnnulled
		}

		// Verificación previa: todos los lotes intactos antes de mutar nada.
		for _, item := range p.Items {
			lot, err := r.Lots.GetForUpdate(item.LotID)
			if err != nil {
				return err
			}
			if lot == nil {
				return fmt.Errorf("%w: línea %s sin lote", domain.ErrIntegrity, item.ID)
			}
			if !lot.Untouched() {
				return fmt.Errorf("%w: lote %s de la compra %s con %s unidades vendidas",
					domain.ErrLotInUse, lot.ID, p.InvoiceNumber, lot.UnitsSold().String())
			}
		}

		now := time.Now()
		for _, item := range p.Items {
			if err := inventory.AnnulLotInTx(r, item.LotID, p.ID, now, userID); err != nil {
				return err
			}
		}

		if err := cash.DeleteByReferenceInTx(r, p.ID); err != nil {
			return err
		}

		p.Status = entity.PurchaseStatusAnnulled
		p.UpdatedAt = now
		if err := r.Purchases.UpdateHeader(p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
