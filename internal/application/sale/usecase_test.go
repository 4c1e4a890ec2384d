package sale_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/purchase"
	"github.com/jhoicas/comercio-api/internal/application/sale"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/ledger"
	"github.com/jhoicas/comercio-api/internal/infrastructure/memory"
)

const testUser = "u-test"

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	store      *memory.Store
	purchaseUC *purchase.UseCase
	saleUC     *sale.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return &fixture{
		store:      store,
		purchaseUC: purchase.NewUseCase(store, store.Repos().Purchases),
		saleUC:     sale.NewUseCase(store, store.Repos().Sales),
	}
}

// seedLots crea el producto y una compra por cada par (cantidad, costo), con
// fechas de entrada consecutivas para fijar el orden FIFO.
func (f *fixture) seedLots(t *testing.T, price string, lots ...[2]string) string {
	t.Helper()
	p := &entity.Product{
		ID:    uuid.New().String(),
		SKU:   "SKU-" + uuid.New().String()[:8],
		Name:  "Producto",
		Price: d(price),
	}
	require.NoError(t, f.store.Repos().Products.Create(p))

	for i, l := range lots {
		date := time.Date(2026, 3, i+1, 0, 0, 0, 0, time.UTC)
		_, err := f.purchaseUC.Create(context.Background(), dto.CreatePurchaseRequest{
			Date:  &date,
			Lines: []dto.PurchaseLineRequest{{ProductID: p.ID, Quantity: d(l[0]), UnitCost: d(l[1])}},
		}, testUser)
		require.NoError(t, err)
	}
	return p.ID
}

func (f *fixture) activeLots(t *testing.T, productID string) []*entity.StockLot {
	t.Helper()
	lots, err := f.store.Repos().Lots.ListActiveByProduct(productID)
	require.NoError(t, err)
	return lots
}

// assertConservation comprueba que el stock agregado del producto coincide
// con la suma de cantidades de sus lotes ACTIVOS.
func (f *fixture) assertConservation(t *testing.T, productID string) {
	t.Helper()
	p, err := f.store.Repos().Products.GetByID(productID)
	require.NoError(t, err)
	sum := decimal.Zero
	for _, lot := range f.activeLots(t, productID) {
		sum = sum.Add(lot.Quantity)
	}
	assert.True(t, p.Stock.Equal(sum), "stock agregado %s != suma de lotes activos %s", p.Stock, sum)
}

func (f *fixture) verifyCash(t *testing.T) []*entity.CashMovement {
	t.Helper()
	movs, err := f.store.Repos().CashMovs.List(nil, nil, 100, 0)
	require.NoError(t, err)
	require.True(t, ledger.Verify(decimal.Zero, movs), "la cadena de saldos debe ser consistente")
	return movs
}

// Venta de 7 sobre lotes [5@10, 5@12]: agota el primero, toma 2 del segundo.
// La línea queda valorada al costo promedio FIFO 74/7 = 10.57 y la utilidad
// sale del costo real de los lotes, no del costo del producto.
func TestCreate_ConsumeFIFOEntreLotes(t *testing.T) {
	f := newFixture(t)
	productID := f.seedLots(t, "20", [2]string{"5", "10"}, [2]string{"5", "12"})

	s, err := f.saleUC.Create(context.Background(), dto.CreateSaleRequest{
		CustomerName: "Cliente",
		Lines:        []dto.SaleLineRequest{{ProductID: productID, Quantity: d("7"), UnitPrice: d("20")}},
	}, testUser)
	require.NoError(t, err)

	assert.Equal(t, "V-2026-00001", s.ID)
	assert.Equal(t, entity.SaleStatusPaid, s.Status)
	require.Len(t, s.Items, 1)
	assert.True(t, s.Items[0].UnitPrice.Equal(d("20")))
	assert.True(t, s.Items[0].UnitCost.Equal(d("10.57")))
	assert.True(t, s.Subtotal.Equal(d("140")))
	assert.True(t, s.TotalCost.Equal(d("74")))
	assert.True(t, s.TotalAmount.Equal(d("140")))
	assert.True(t, s.Profit.Equal(d("66")))

	active := f.activeLots(t, productID)
	require.Len(t, active, 1, "el primer lote quedó agotado")
	assert.True(t, active[0].Quantity.Equal(d("3")))
	f.assertConservation(t, productID)

	movs, err := f.store.Repos().StockMovs.ListByReferenceAndSubtype(s.ID, entity.MovementSubtypeSale)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.True(t, movs[0].Quantity.Equal(d("-5")))
	assert.True(t, movs[1].Quantity.Equal(d("-2")))

	cm, err := f.store.Repos().CashMovs.GetByReference(s.ID)
	require.NoError(t, err)
	require.NotNil(t, cm)
	assert.Equal(t, entity.CashTypeEntrada, cm.Type)
	assert.Equal(t, "VENTAS", cm.Category)
	assert.Equal(t, "Venta V-2026-00001", cm.Description)
	assert.True(t, cm.Amount.Equal(d("140")))
	f.verifyCash(t)
}

func TestCreate_PrecioPorDefectoYDomicilio(t *testing.T) {
	f := newFixture(t)
	productID := f.seedLots(t, "20", [2]string{"10", "5"})

	s, err := f.saleUC.Create(context.Background(), dto.CreateSaleRequest{
		DeliveryCost: d("8"),
		Lines:        []dto.SaleLineRequest{{ProductID: productID, Quantity: d("2")}},
	}, testUser)
	require.NoError(t, err)

	assert.True(t, s.Items[0].UnitPrice.Equal(d("20")), "sin precio en la línea rige el del producto")
	assert.True(t, s.Subtotal.Equal(d("40")))
	assert.True(t, s.TotalAmount.Equal(d("48")))
	assert.True(t, s.Profit.Equal(d("30")), "el domicilio no entra en la utilidad")

	cm, err := f.store.Repos().CashMovs.GetByReference(s.ID)
	require.NoError(t, err)
	assert.True(t, cm.Amount.Equal(d("48")))
}

// Un faltante aborta la venta entera: ni documento, ni consumo, ni caja.
func TestCreate_StockInsuficienteAbortaTodo(t *testing.T) {
	f := newFixture(t)
	productID := f.seedLots(t, "20", [2]string{"5", "10"}, [2]string{"5", "12"})

	_, err := f.saleUC.Create(context.Background(), dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: productID, Quantity: d("12")}},
	}, testUser)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &insErr))
	assert.True(t, insErr.Requested.Equal(d("12")))
	assert.True(t, insErr.Available.Equal(d("10")))

	active := f.activeLots(t, productID)
	require.Len(t, active, 2, "ningún lote fue tocado")
	assert.True(t, active[0].Quantity.Equal(d("5")))
	assert.True(t, active[1].Quantity.Equal(d("5")))
	f.assertConservation(t, productID)

	sales, err := f.store.Repos().Sales.List(10, 0)
	require.NoError(t, err)
	assert.Empty(t, sales)
	assert.Len(t, f.verifyCash(t), 2, "solo quedan las salidas de las compras")
}

// La verificación es sobre el agregado por producto: dos líneas que por
// separado caben pero juntas exceden el stock rechazan la venta.
func TestCreate_ValidaDisponibilidadAgregada(t *testing.T) {
	f := newFixture(t)
	productID := f.seedLots(t, "20", [2]string{"10", "5"})

	_, err := f.saleUC.Create(context.Background(), dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{
			{ProductID: productID, Quantity: d("6")},
			{ProductID: productID, Quantity: d("6")},
		},
	}, testUser)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &insErr))
	assert.True(t, insErr.Requested.Equal(d("12")))
	assert.True(t, insErr.Available.Equal(d("10")))
}

func TestCreate_LineasInvalidas(t *testing.T) {
	f := newFixture(t)
	productID := f.seedLots(t, "20", [2]string{"10", "5"})
	ctx := context.Background()

	_, err := f.saleUC.Create(ctx, dto.CreateSaleRequest{}, testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.saleUC.Create(ctx, dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: productID, Quantity: d("0")}},
	}, testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.saleUC.Create(ctx, dto.CreateSaleRequest{
		DeliveryCost: d("-1"),
		Lines:        []dto.SaleLineRequest{{ProductID: productID, Quantity: d("1")}},
	}, testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnnul_RestauraLotesStockYCaja(t *testing.T) {
	f := newFixture(t)
	productID := f.seedLots(t, "20", [2]string{"5", "10"}, [2]string{"5", "12"})

	s, err := f.saleUC.Create(context.Background(), dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: productID, Quantity: d("7")}},
	}, testUser)
	require.NoError(t, err)

	annulled, err := f.saleUC.Annul(context.Background(), s.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusAnnulled, annulled.Status)

	// cada unidad vuelve a su lote original, reactivando el agotado
	active := f.activeLots(t, productID)
	require.Len(t, active, 2)
	assert.True(t, active[0].Quantity.Equal(d("5")))
	assert.True(t, active[1].Quantity.Equal(d("5")))
	f.assertConservation(t, productID)

	mirrors, err := f.store.Repos().StockMovs.ListByReferenceAndSubtype(s.ID, entity.MovementSubtypeSaleAnnulment)
	require.NoError(t, err)
	require.Len(t, mirrors, 2)
	assert.True(t, mirrors[0].Quantity.Equal(d("5")))
	assert.True(t, mirrors[1].Quantity.Equal(d("2")))

	cm, err := f.store.Repos().CashMovs.GetByReference(s.ID)
	require.NoError(t, err)
	assert.Nil(t, cm, "el efecto de caja de la venta se borra")
	assert.Len(t, f.verifyCash(t), 2)

	_, err = f.saleUC.Annul(context.Background(), s.ID, testUser)
	assert.ErrorIs(t, err, domain.ErrAlreadyAnnulled)
}

func TestGetByID_NoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.saleUC.GetByID("V-2026-09999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
