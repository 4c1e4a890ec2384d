package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func lot(id string, entryDay int, qty, cost string) *entity.StockLot {
	return &entity.StockLot{
		ID:               id,
		ProductID:        "p1",
		Quantity:         d(qty),
		OriginalQuantity: d(qty),
		CostPerUnit:      d(cost),
		EntryDate:        time.Date(2026, 2, entryDay, 0, 0, 0, 0, time.UTC),
		Status:           entity.LotStatusActive,
	}
}

// Pedido de 7 sobre lotes [5@10, 5@12]: agota el primero y toma 2 del
// segundo. Costo total 5*10 + 2*12 = 74, costo unitario promedio 10.57.
func TestPlanConsumption_ReparteEntreLotes(t *testing.T) {
	lots := []*entity.StockLot{
		lot("l1", 1, "5", "10"),
		lot("l2", 2, "5", "12"),
	}

	plan, err := inventory.PlanConsumption("p1", lots, d("7"))
	require.NoError(t, err)

	require.Len(t, plan.Takes, 2)
	assert.Equal(t, "l1", plan.Takes[0].Lot.ID)
	assert.True(t, plan.Takes[0].Quantity.Equal(d("5")))
	assert.Equal(t, "l2", plan.Takes[1].Lot.ID)
	assert.True(t, plan.Takes[1].Quantity.Equal(d("2")))

	assert.True(t, plan.TotalCost.Equal(d("74")))
	assert.True(t, plan.AverageUnitCost().Equal(d("10.57")))

	// planear no muta los lotes
	assert.True(t, lots[0].Quantity.Equal(d("5")))
	assert.True(t, lots[1].Quantity.Equal(d("5")))
}

func TestPlanConsumption_UnSoloLote(t *testing.T) {
	lots := []*entity.StockLot{lot("l1", 1, "10", "3")}

	plan, err := inventory.PlanConsumption("p1", lots, d("4"))
	require.NoError(t, err)

	require.Len(t, plan.Takes, 1)
	assert.True(t, plan.Takes[0].Quantity.Equal(d("4")))
	assert.True(t, plan.TotalCost.Equal(d("12")))
	assert.True(t, plan.AverageUnitCost().Equal(d("3")))
}

func TestPlanConsumption_StockInsuficiente(t *testing.T) {
	lots := []*entity.StockLot{
		lot("l1", 1, "5", "10"),
		lot("l2", 2, "5", "12"),
	}

	plan, err := inventory.PlanConsumption("p1", lots, d("12"))
	assert.Nil(t, plan)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var insErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &insErr))
	assert.Equal(t, "p1", insErr.ProductID)
	assert.True(t, insErr.Requested.Equal(d("12")))
	assert.True(t, insErr.Available.Equal(d("10")))
}

func TestPlanConsumption_IgnoraLotesNoActivos(t *testing.T) {
	depleted := lot("l1", 1, "0", "10")
	depleted.Status = entity.LotStatusDepleted
	deleted := lot("l2", 2, "5", "10")
	deleted.Status = entity.LotStatusDeleted
	active := lot("l3", 3, "5", "11")

	plan, err := inventory.PlanConsumption("p1", []*entity.StockLot{depleted, deleted, active}, d("3"))
	require.NoError(t, err)

	require.Len(t, plan.Takes, 1)
	assert.Equal(t, "l3", plan.Takes[0].Lot.ID)
}

func TestPlanConsumption_CantidadInvalida(t *testing.T) {
	lots := []*entity.StockLot{lot("l1", 1, "5", "10")}

	for _, qty := range []string{"0", "-1"} {
		plan, err := inventory.PlanConsumption("p1", lots, d(qty))
		assert.Nil(t, plan)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

// Con la misma fecha de entrada desempata por ID para que el plan sea
// determinista entre ejecuciones.
func TestSortFIFO_DesempataPorID(t *testing.T) {
	b := lot("b", 1, "5", "10")
	a := lot("a", 1, "5", "10")
	older := lot("z", 2, "5", "10")

	lots := []*entity.StockLot{older, b, a}
	inventory.SortFIFO(lots)

	assert.Equal(t, "a", lots[0].ID)
	assert.Equal(t, "b", lots[1].ID)
	assert.Equal(t, "z", lots[2].ID)
}

func TestAverageUnitCost_SinCantidad(t *testing.T) {
	plan := &inventory.ConsumptionPlan{Requested: decimal.Zero}
	assert.True(t, plan.AverageUnitCost().Equal(decimal.Zero))
}
