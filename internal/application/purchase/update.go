package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/comercio-api/internal/application/cash"
	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/uow"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
)

// Update edita una compra por reconciliación de líneas contra el conjunto
// nuevo (no se borra y recrea el documento):
//
//   - línea conservada: no puede quedar por debajo de lo ya vendido del lote;
//     el diff se aplica al lote y al stock con un movimiento AJUSTE_COMPRA.
//   - línea eliminada: solo si el lote está intacto; se revierte stock, se
//     borra el lote y queda el movimiento compensatorio.
//   - línea nueva: se recibe igual que en Create, anclada a la fecha original
//     de la compra.
//
// Si el total cambió, se reescribe el movimiento de caja del documento y la
// cadena de saldos se repara desde su fecha.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdatePurchaseRequest, userID string) (*entity.Purchase, error) {
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}

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

		newByProduct := make(map[string]dto.PurchaseLineRequest, len(in.Lines))
		for _, line := range in.Lines {
			newByProduct[line.ProductID] = line
		}

		existing := make(map[string]bool, len(p.Items))
		for _, item := range p.Items {
			existing[item.ProductID] = true
			line, kept := newByProduct[item.ProductID]
			if kept {
				if err := reconcileLine(r, p, item, line, userID); err != nil {
					return err
				}
			} else {
				if err := removeLine(r, p, item, userID); err != nil {
					return err
				}
			}
		}

		for _, line := range in.Lines {
			if existing[line.ProductID] {
				continue
			}
			item := &entity.PurchaseItem{
				ID:         uuid.New().String(),
				PurchaseID: p.ID,
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				UnitCost:   line.UnitCost,
				LotID:      uuid.New().String(),
			}
			if err := r.Purchases.CreateItem(item); err != nil {
				return err
			}
			if err := receiveLine(r, p, item, line.ExpiryDate, userID); err != nil {
				return err
			}
		}

		newTotal := linesTotal(in.Lines)
		if !newTotal.Equal(p.TotalAmount) {
			p.TotalAmount = newTotal
			if err := cash.UpdateReferenceAmountInTx(r, p.ID, newTotal.Neg()); err != nil {
				return err
			}
		}
		p.UpdatedAt = time.Now()
		if err := r.Purchases.UpdateHeader(p); err != nil {
			return err
		}

		out, err = r.Purchases.GetByID(p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// reconcileLine aplica el diff de cantidad de una línea conservada sobre su
// lote, el stock del producto y el rastro de movimientos.
func reconcileLine(r uow.Repos, p *entity.Purchase, item *entity.PurchaseItem, line dto.PurchaseLineRequest, userID string) error {
	lot, err := r.Lots.GetForUpdate(item.LotID)
	if err != nil {
		return err
	}
	if lot == nil {
		return fmt.Errorf("%w: línea %s sin lote", domain.ErrIntegrity, item.ID)
	}

	unitsSold := lot.UnitsSold()
	if line.Quantity.LessThan(unitsSold) {
		return fmt.Errorf("%w: línea de %s ya vendió %s unidades, no puede bajar a %s",
			domain.ErrLineInUse, item.ProductID, unitsSold.String(), line.Quantity.String())
	}

	now := time.Now()
	diff := line.Quantity.Sub(item.Quantity)
	costChanged := !line.UnitCost.Equal(item.UnitCost)
	if diff.IsZero() && !costChanged {
		return nil
	}

	if !diff.IsZero() {
		product, err := r.Products.GetForUpdate(item.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
		}

		lot.Quantity = lot.Quantity.Add(diff)
		lot.OriginalQuantity = line.Quantity
		switch {
		case lot.Quantity.IsZero():
			lot.Status = entity.LotStatusDepleted
		case lot.Status == entity.LotStatusDepleted:
			lot.Status = entity.LotStatusActive
		}

		movType := entity.MovementTypeEntrada
		if diff.IsNegative() {
			movType = entity.MovementTypeSalida
		}
		lotID := lot.ID
		mov := &entity.StockMovement{
			ID:          uuid.New().String(),
			ProductID:   item.ProductID,
			LotID:       &lotID,
			Quantity:    diff,
			Type:        movType,
			Subtype:     entity.MovementSubtypePurchaseEdit,
			UnitCost:    line.UnitCost,
			TotalCost:   diff.Mul(line.UnitCost),
			ReferenceID: &p.ID,
			Date:        p.Date,
			CreatedAt:   now,
			CreatedBy:   userID,
		}
		if err := r.StockMovs.Create(mov); err != nil {
			return err
		}
		if err := r.Products.UpdateStock(product.ID, product.Stock.Add(diff)); err != nil {
			return err
		}
	}

	if costChanged {
		lot.CostPerUnit = line.UnitCost
	}
	lot.UpdatedAt = now
	if err := r.Lots.Update(lot); err != nil {
		return err
	}

	item.Quantity = line.Quantity
	item.UnitCost = line.UnitCost
	return r.Purchases.UpdateItem(item)
}

// removeLine quita una línea ausente del conjunto nuevo. Solo se permite si
// el lote está intacto; se revierte el stock, queda el movimiento
// compensatorio y el lote y la línea se eliminan.
func removeLine(r uow.Repos, p *entity.Purchase, item *entity.PurchaseItem, userID string) error {
	lot, err := r.Lots.GetForUpdate(item.LotID)
	if err != nil {
		return err
	}
	if lot == nil {
		return fmt.Errorf("%w: línea %s sin lote", domain.ErrIntegrity, item.ID)
	}
	if lot.UnitsSold().IsPositive() {
		return fmt.Errorf("%w: línea de %s ya vendió %s unidades, no puede eliminarse",
			domain.ErrLineInUse, item.ProductID, lot.UnitsSold().String())
	}

	product, err := r.Products.GetForUpdate(item.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
	}

	lotID := lot.ID
	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   item.ProductID,
		LotID:       &lotID,
		Quantity:    lot.OriginalQuantity.Neg(),
		Type:        entity.MovementTypeSalida,
		Subtype:     entity.MovementSubtypePurchaseEdit,
		UnitCost:    lot.CostPerUnit,
		TotalCost:   lot.OriginalQuantity.Neg().Mul(lot.CostPerUnit),
		ReferenceID: &p.ID,
		Date:        p.Date,
		CreatedAt:   time.Now(),
		CreatedBy:   userID,
	}
	if err := r.StockMovs.Create(mov); err != nil {
		return err
	}
	if err := r.Products.UpdateStock(product.ID, product.Stock.Sub(lot.OriginalQuantity)); err != nil {
		return err
	}
	if err := r.Lots.Delete(lot.ID); err != nil {
		return err
	}
	return r.Purchases.DeleteItem(item.ID)
}
