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
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// Create registra una compra: cabecera con número consecutivo del año, un
// lote y un movimiento ENTRADA/COMPRA por línea, incremento de stock por
// producto y la salida de caja por el total. Todo en una transacción: un
// fallo en cualquier paso revierte lotes, movimientos, stock y caja juntos.
func (uc *UseCase) Create(ctx context.Context, in dto.CreatePurchaseRequest, userID string) (*entity.Purchase, error) {
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}

	now := time.Now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}

	var out *entity.Purchase
	err := uc.runner.Run(ctx, func(r uow.Repos) error {
		seq, err := r.Sequences.Next(repository.SequencePurchase, date.Year())
		if err != nil {
			return err
		}

		p := &entity.Purchase{
			ID:            uuid.New().String(),
			InvoiceNumber: fmt.Sprintf("FC-%d-%05d", date.Year(), seq),
			SupplierID:    in.SupplierID,
			Date:          date,
			TotalAmount:   linesTotal(in.Lines),
			Status:        entity.PurchaseStatusRegistered,
			CreatedBy:     userID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		for _, line := range in.Lines {
			p.Items = append(p.Items, &entity.PurchaseItem{
				ID:         uuid.New().String(),
				PurchaseID: p.ID,
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				UnitCost:   line.UnitCost,
				LotID:      uuid.New().String(),
			})
		}
		if err := r.Purchases.Create(p); err != nil {
			return err
		}

		for i, item := range p.Items {
			if err := receiveLine(r, p, item, in.Lines[i].ExpiryDate, userID); err != nil {
				return err
			}
		}

		cm := &entity.CashMovement{
			ID:          uuid.New().String(),
			Type:        entity.CashTypeSalida,
			Amount:      p.TotalAmount.Neg(),
			Category:    cashCategory,
			Description: "Compra " + p.InvoiceNumber,
			Date:        date,
			ReferenceID: &p.ID,
			CreatedBy:   userID,
			CreatedAt:   now,
		}
		if err := cash.AppendInTx(r, cm); err != nil {
			return err
		}

		// Releer hidratada dentro de la misma transacción.
		out, err = r.Purchases.GetByID(p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// receiveLine materializa una línea de compra: bloquea el producto, crea el
// lote (fecha de entrada = fecha de la compra, no de inserción), emite el
// movimiento de entrada y suma el stock agregado.
func receiveLine(r uow.Repos, p *entity.Purchase, item *entity.PurchaseItem, expiry *time.Time, userID string) error {
	product, err := r.Products.GetForUpdate(item.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
	}

	now := time.Now()
	itemID := item.ID
	lot := &entity.StockLot{
		ID:               item.LotID,
		ProductID:        item.ProductID,
		PurchaseItemID:   &itemID,
		SupplierID:       p.SupplierID,
		Quantity:         item.Quantity,
		OriginalQuantity: item.Quantity,
		CostPerUnit:      item.UnitCost,
		EntryDate:        p.Date,
		ExpiryDate:       expiry,
		Status:           entity.LotStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := r.Lots.Create(lot); err != nil {
		return err
	}

	lotID := lot.ID
	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   item.ProductID,
		LotID:       &lotID,
		Quantity:    item.Quantity,
		Type:        entity.MovementTypeEntrada,
		Subtype:     entity.MovementSubtypePurchase,
		UnitCost:    item.UnitCost,
		TotalCost:   item.Quantity.Mul(item.UnitCost),
		ReferenceID: &p.ID,
		Date:        p.Date,
		CreatedAt:   now,
		CreatedBy:   userID,
	}
	if err := r.StockMovs.Create(mov); err != nil {
		return err
	}

	// El costo del producto refleja la última adquisición.
	product.Cost = item.UnitCost
	product.Stock = product.Stock.Add(item.Quantity)
	product.UpdatedAt = now
	return r.Products.Update(product)
}
