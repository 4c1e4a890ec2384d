// Package inventory contiene la lógica pura de selección FIFO de lotes.
package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
)

// MoneyPrecision decimales de la precisión monetaria del libro.
const MoneyPrecision = 2

// LotTake es una toma parcial o total sobre un lote.
type LotTake struct {
	Lot      *entity.StockLot
	Quantity decimal.Decimal // unidades tomadas de este lote
}

// ConsumptionPlan es el resultado de planear un consumo FIFO: de qué lotes
// tomar, cuánto, y el costo incurrido. No muta los lotes; aplicarlo es
// responsabilidad del caso de uso dentro de su transacción.
type ConsumptionPlan struct {
	Takes     []LotTake
	TotalCost decimal.Decimal
	Requested decimal.Decimal
}

// AverageUnitCost devuelve TotalCost/Requested redondeado a la precisión
// monetaria; es el costo con que se valora la línea de venta.
func (p *ConsumptionPlan) AverageUnitCost() decimal.Decimal {
	if p.Requested.IsZero() {
		return decimal.Zero
	}
	return p.TotalCost.Div(p.Requested).Round(MoneyPrecision)
}

// SortFIFO ordena lotes por EntryDate ascendente, desempatando por ID para
// que la selección sea determinista.
func SortFIFO(lots []*entity.StockLot) {
	sort.SliceStable(lots, func(i, j int) bool {
		if !lots[i].EntryDate.Equal(lots[j].EntryDate) {
			return lots[i].EntryDate.Before(lots[j].EntryDate)
		}
		return lots[i].ID < lots[j].ID
	})
}

// PlanConsumption recorre lotes ACTIVOS en orden FIFO y arma el plan para
// cubrir quantity. Se permite repartir entre varios lotes; lo que no se
// permite es cubrir la cantidad a medias: si la suma de lotes elegibles no
// alcanza, devuelve InsufficientStockError y no hay plan.
//
// lots debe venir ya ordenado (SortFIFO o el ORDER BY del repositorio).
func PlanConsumption(productID string, lots []*entity.StockLot, quantity decimal.Decimal) (*ConsumptionPlan, error) {
	if !quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	plan := &ConsumptionPlan{Requested: quantity}
	remaining := quantity
	for _, lot := range lots {
		if lot.Status != entity.LotStatusActive || !lot.Quantity.IsPositive() {
			continue
		}
		take := decimal.Min(remaining, lot.Quantity)
		plan.Takes = append(plan.Takes, LotTake{Lot: lot, Quantity: take})
		plan.TotalCost = plan.TotalCost.Add(take.Mul(lot.CostPerUnit))
		remaining = remaining.Sub(take)
		if remaining.IsZero() {
			return plan, nil
		}
	}

	return nil, &domain.InsufficientStockError{
		ProductID: productID,
		Requested: quantity,
		Available: quantity.Sub(remaining),
	}
}
