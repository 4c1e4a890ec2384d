package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/comercio-api/internal/application/uow"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
)

// ReverseConsumptionInTx revierte un movimiento de salida por venta: devuelve
// las unidades al lote original (reactivándolo si estaba AGOTADO), repone el
// stock agregado y emite el movimiento espejo ANULACION_VENTA.
//
// Todo movimiento subtipo VENTA debe referenciar su lote; si no lo hace, el
// rastro de auditoría está roto y la anulación no puede continuar.
func ReverseConsumptionInTx(r uow.Repos, mov *entity.StockMovement, date time.Time, userID string) error {
	if mov.Subtype != entity.MovementSubtypeSale {
		return fmt.Errorf("%w: se esperaba subtipo VENTA, movimiento %s es %s", domain.ErrIntegrity, mov.ID, mov.Subtype)
	}
	if mov.LotID == nil {
		return fmt.Errorf("%w: movimiento VENTA %s sin lote", domain.ErrIntegrity, mov.ID)
	}

	lot, err := r.Lots.GetForUpdate(*mov.LotID)
	if err != nil {
		return err
	}
	if lot == nil {
		return fmt.Errorf("%w: lote %s del movimiento %s no existe", domain.ErrIntegrity, *mov.LotID, mov.ID)
	}

	now := time.Now()
	restored := mov.Quantity.Abs()
	lot.Quantity = lot.Quantity.Add(restored)
	if lot.Status == entity.LotStatusDepleted && lot.Quantity.IsPositive() {
		lot.Status = entity.LotStatusActive
	}
	lot.UpdatedAt = now
	if err := r.Lots.Update(lot); err != nil {
		return err
	}

	lotID := lot.ID
	mirror := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   mov.ProductID,
		LotID:       &lotID,
		Quantity:    restored,
		Type:        entity.MovementTypeEntrada,
		Subtype:     entity.MovementSubtypeSaleAnnulment,
		UnitCost:    mov.UnitCost,
		TotalCost:   restored.Mul(mov.UnitCost),
		ReferenceID: mov.ReferenceID,
		Date:        date,
		CreatedAt:   now,
		CreatedBy:   userID,
	}
	if err := r.StockMovs.Create(mirror); err != nil {
		return err
	}

	product, err := r.Products.GetForUpdate(mov.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: producto %s del movimiento %s no existe", domain.ErrIntegrity, mov.ProductID, mov.ID)
	}
	return r.Products.UpdateStock(product.ID, product.Stock.Add(restored))
}

// AnnulLotInTx anula un lote intacto (anulación o edición de compra): fuerza
// cantidad 0, estado ELIMINADO y emite el movimiento compensatorio de salida
// por la cantidad original. Un lote con unidades vendidas no se puede anular.
func AnnulLotInTx(r uow.Repos, lotID, referenceID string, date time.Time, userID string) error {
	lot, err := r.Lots.GetForUpdate(lotID)
	if err != nil {
		return err
	}
	if lot == nil {
		return fmt.Errorf("%w: lote %s", domain.ErrNotFound, lotID)
	}
	if !lot.Untouched() {
		return fmt.Errorf("%w: lote %s con %s unidades vendidas", domain.ErrLotInUse, lot.ID, lot.UnitsSold().String())
	}

	now := time.Now()
	original := lot.OriginalQuantity
	lot.Quantity = lot.Quantity.Sub(original) // queda en cero
	lot.Status = entity.LotStatusDeleted
	lot.UpdatedAt = now
	if err := r.Lots.Update(lot); err != nil {
		return err
	}

	id := lot.ID
	refID := referenceID
	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   lot.ProductID,
		LotID:       &id,
		Quantity:    original.Neg(),
		Type:        entity.MovementTypeSalida,
		Subtype:     entity.MovementSubtypePurchaseAnnulment,
		UnitCost:    lot.CostPerUnit,
		TotalCost:   original.Neg().Mul(lot.CostPerUnit),
		ReferenceID: &refID,
		Date:        date,
		CreatedAt:   now,
		CreatedBy:   userID,
	}
	if err := r.StockMovs.Create(mov); err != nil {
		return err
	}

	product, err := r.Products.GetForUpdate(lot.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: producto %s del lote %s no existe", domain.ErrIntegrity, lot.ProductID, lot.ID)
	}
	return r.Products.UpdateStock(product.ID, product.Stock.Sub(original))
}
