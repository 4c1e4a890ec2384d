// Package inventory aplica el motor de lotes dentro de la transacción de los
// orquestadores: consumo FIFO, reversa de consumos y anulación de lotes.
// Cada cambio de cantidad deja su StockMovement: el rastro de auditoría es
// la fuente de verdad del inventario.
package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercio-api/internal/application/uow"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	fifo "github.com/jhoicas/comercio-api/internal/domain/inventory"
)

// ConsumeResult resultado de un consumo FIFO aplicado.
type ConsumeResult struct {
	AverageUnitCost decimal.Decimal
	TotalCost       decimal.Decimal
	Movements       []*entity.StockMovement
}

// ConsumeInTx consume quantity unidades del producto en orden FIFO dentro de
// la transacción del caller: decrementa lotes (AGOTADO al llegar a cero),
// emite un movimiento SALIDA/VENTA por lote tocado y descuenta el stock
// agregado. El caller debe tener bloqueada la fila del producto.
func ConsumeInTx(r uow.Repos, product *entity.Product, quantity decimal.Decimal, saleID string, date time.Time, userID string) (*ConsumeResult, error) {
	lots, err := r.Lots.ListActiveByProduct(product.ID)
	if err != nil {
		return nil, err
	}
	plan, err := fifo.PlanConsumption(product.ID, lots, quantity)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := &ConsumeResult{
		AverageUnitCost: plan.AverageUnitCost(),
		TotalCost:       plan.TotalCost,
	}
	for _, take := range plan.Takes {
		lot := take.Lot
		lot.Quantity = lot.Quantity.Sub(take.Quantity)
		if lot.Quantity.IsZero() {
			lot.Status = entity.LotStatusDepleted
		}
		lot.UpdatedAt = now
		if err := r.Lots.Update(lot); err != nil {
			return nil, err
		}

		lotID := lot.ID
		refID := saleID
		mov := &entity.StockMovement{
			ID:          uuid.New().String(),
			ProductID:   product.ID,
			LotID:       &lotID,
			Quantity:    take.Quantity.Neg(),
			Type:        entity.MovementTypeSalida,
			Subtype:     entity.MovementSubtypeSale,
			UnitCost:    lot.CostPerUnit,
			TotalCost:   take.Quantity.Neg().Mul(lot.CostPerUnit),
			ReferenceID: &refID,
			Date:        date,
			CreatedAt:   now,
			CreatedBy:   userID,
		}
		if err := r.StockMovs.Create(mov); err != nil {
			return nil, err
		}
		result.Movements = append(result.Movements, mov)
	}

	product.Stock = product.Stock.Sub(quantity)
	if err := r.Products.UpdateStock(product.ID, product.Stock); err != nil {
		return nil, err
	}
	return result, nil
}
