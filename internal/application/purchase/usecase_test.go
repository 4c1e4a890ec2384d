package purchase_test

import (
	"context"
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

func (f *fixture) seedProduct(t *testing.T, sku, price string) string {
	t.Helper()
	p := &entity.Product{
		ID:    uuid.New().String(),
		SKU:   sku,
		Name:  "Producto " + sku,
		Price: d(price),
	}
	require.NoError(t, f.store.Repos().Products.Create(p))
	return p.ID
}

func (f *fixture) product(t *testing.T, id string) *entity.Product {
	t.Helper()
	p, err := f.store.Repos().Products.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func (f *fixture) lot(t *testing.T, id string) *entity.StockLot {
	t.Helper()
	lot, err := f.store.Repos().Lots.GetByID(id)
	require.NoError(t, err)
	return lot
}

func (f *fixture) buy(t *testing.T, date time.Time, lines ...dto.PurchaseLineRequest) *entity.Purchase {
	t.Helper()
	p, err := f.purchaseUC.Create(context.Background(), dto.CreatePurchaseRequest{
		Date:  &date,
		Lines: lines,
	}, testUser)
	require.NoError(t, err)
	return p
}

func (f *fixture) sell(t *testing.T, productID, qty string) *entity.Sale {
	t.Helper()
	s, err := f.saleUC.Create(context.Background(), dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: productID, Quantity: d(qty)}},
	}, testUser)
	require.NoError(t, err)
	return s
}

// verifyCash comprueba el invariante de la cadena de saldos completa.
func (f *fixture) verifyCash(t *testing.T) []*entity.CashMovement {
	t.Helper()
	movs, err := f.store.Repos().CashMovs.List(nil, nil, 100, 0)
	require.NoError(t, err)
	require.True(t, ledger.Verify(decimal.Zero, movs), "la cadena de saldos debe ser consistente")
	return movs
}

func line(productID, qty, cost string) dto.PurchaseLineRequest {
	return dto.PurchaseLineRequest{ProductID: productID, Quantity: d(qty), UnitCost: d(cost)}
}

func march(n int) time.Time {
	return time.Date(2026, 3, n, 0, 0, 0, 0, time.UTC)
}

func TestCreate_RegistraCompraCompleta(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "SKU-1", "20")

	p := f.buy(t, march(1), line(productID, "10", "5"))

	assert.Equal(t, "FC-2026-00001", p.InvoiceNumber)
	assert.Equal(t, entity.PurchaseStatusRegistered, p.Status)
	assert.True(t, p.TotalAmount.Equal(d("50")))
	require.Len(t, p.Items, 1)

	lot := f.lot(t, p.Items[0].LotID)
	require.NotNil(t, lot)
	assert.True(t, lot.Quantity.Equal(d("10")))
	assert.True(t, lot.OriginalQuantity.Equal(d("10")))
	assert.True(t, lot.CostPerUnit.Equal(d("5")))
	assert.Equal(t, entity.LotStatusActive, lot.Status)
	assert.True(t, lot.EntryDate.Equal(march(1)), "la fecha de entrada es la de la compra")

	product := f.product(t, productID)
	assert.True(t, product.Stock.Equal(d("10")))
	assert.True(t, product.Cost.Equal(d("5")), "el costo del producto refleja la última compra")

	movs, err := f.store.Repos().StockMovs.ListByReferenceAndSubtype(p.ID, entity.MovementSubtypePurchase)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeEntrada, movs[0].Type)
	assert.True(t, movs[0].Quantity.Equal(d("10")))
	assert.True(t, movs[0].TotalCost.Equal(d("50")))

	cm, err := f.store.Repos().CashMovs.GetByReference(p.ID)
	require.NoError(t, err)
	require.NotNil(t, cm)
	assert.Equal(t, entity.CashTypeSalida, cm.Type)
	assert.Equal(t, "COMPRAS", cm.Category)
	assert.Equal(t, "Compra FC-2026-00001", cm.Description)
	assert.True(t, cm.Amount.Equal(d("-50")))
	assert.True(t, cm.NewBalance.Equal(d("-50")))
	f.verifyCash(t)
}

func TestCreate_NumeracionConsecutivaPorAnio(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "SKU-1", "20")

	p1 := f.buy(t, march(1), line(productID, "1", "5"))
	p2 := f.buy(t, march(2), line(productID, "1", "5"))

	assert.Equal(t, "FC-2026-00001", p1.InvoiceNumber)
	assert.Equal(t, "FC-2026-00002", p2.InvoiceNumber)
}

// Un producto inexistente en cualquier línea aborta la compra entera: ni
// cabecera, ni lotes, ni caja.
func TestCreate_ProductoInexistenteRevierteTodo(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "SKU-1", "20")

	date := march(1)
	_, err := f.purchaseUC.Create(context.Background(), dto.CreatePurchaseRequest{
		Date:  &date,
		Lines: []dto.PurchaseLineRequest{line(productID, "10", "5"), line(uuid.New().String(), "1", "1")},
	}, testUser)
	require.ErrorIs(t, err, domain.ErrNotFound)

	purchases, err := f.store.Repos().Purchases.List(10, 0)
	require.NoError(t, err)
	assert.Empty(t, purchases)
	assert.True(t, f.product(t, productID).Stock.IsZero())
	assert.Empty(t, f.verifyCash(t))
}

func TestCreate_LineasInvalidas(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "SKU-1", "20")
	ctx := context.Background()

	_, err := f.purchaseUC.Create(ctx, dto.CreatePurchaseRequest{}, testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.purchaseUC.Create(ctx, dto.CreatePurchaseRequest{
		Lines: []dto.PurchaseLineRequest{line(productID, "0", "5")},
	}, testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.purchaseUC.Create(ctx, dto.CreatePurchaseRequest{
		Lines: []dto.PurchaseLineRequest{line(productID, "1", "5"), line(productID, "2", "5")},
	}, testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "producto repetido en las líneas")
}

func TestUpdate_AjustaCantidadLoteStockYCaja(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "SKU-1", "20")
	p := f.buy(t, march(1), line(productID, "10", "5"))

	updated, err := f.purchaseUC.Update(context.Background(), p.ID, dto.UpdatePurchaseRequest{
		Lines: []dto.PurchaseLineRequest{line(productID, "8", "5")},
	}, testUser)
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(d("40")))

	lot := f.lot(t, p.Items[0].LotID)
	assert.True(t, lot.Quantity.Equal(d("8")))
	assert.True(t, lot.OriginalQuantity.Equal(d("8")))
	assert.True(t, f.product(t, productID).Stock.Equal(d("8")))

	adjustments, err := f.store.Repos().StockMovs.ListByReferenceAndSubtype(p.ID, entity.MovementSubtypePurchaseEdit)
	require.NoError(t, err)
	require.Len(t, adjustments, 1)
	assert.Equal(t, entity.MovementTypeSalida, adjustments[0].Type)
	assert.True(t, adjustments[0].Quantity.Equal(d("-2")))

	cm, err := f.store.Repos().CashMovs.GetByReference(p.ID)
	require.NoError(t, err)
	assert.True(t, cm.Amount.Equal(d("-40")), "el movimiento de caja del documento se reescribe")
	f.verifyCash(t)
}

// Con 6 unidades vendidas del lote, la línea no puede bajar de 6: a 5 se
// rechaza, a 6 procede dejando el lote agotado en cero.
func TestUpdate_NoBajaDeLoVendido(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "SKU-1", "20")
	p := f.buy(t, march(1), line(productID, "10", "5"))
	f.sell(t, productID, "6")

	_, err := f.purchaseUC.Update(context.Background(), p.ID, dto.UpdatePurchaseRequest{
		Lines: []dto.PurchaseLineRequest{line(productID, "5", "5")},
	}, testUser)
	require.ErrorIs(t, err, domain.ErrLineInUse)
	assert.True(t, f.lot(t, p.Items[0].LotID).Quantity.Equal(d("4")), "el rechazo no muta nada")

	updated, err := f.purchaseUC.Update(context.Background(), p.ID, dto.UpdatePurchaseRequest{
		Lines: []dto.PurchaseLineRequest{line(productID, "6", "5")},
	}, testUser)
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(d("30")))

	lot := f.lot(t, p.Items[0].LotID)
	assert.True(t, lot.Quantity.IsZero())
	assert.True(t, lot.OriginalQuantity.Equal(d("6")))
	assert.Equal(t, entity.LotStatusDepleted, lot.Status)
	assert.True(t, f.product(t, productID).Stock.IsZero())
	f.verifyCash(t)
}

func TestUpdate_EliminaYAgregaLineas(t *testing.T) {
	f := newFixture(t)
	p1 := f.seedProduct(t, "SKU-1", "20")
	p2 := f.seedProduct(t, "SKU-2", "15")
	p3 := f.seedProduct(t, "SKU-3", "9")
	p := f.buy(t, march(1), line(p1, "10", "5"), line(p2, "4", "7"))
	require.True(t, p.TotalAmount.Equal(d("78")))

	updated, err := f.purchaseUC.Update(context.Background(), p.ID, dto.UpdatePurchaseRequest{
		Lines: []dto.PurchaseLineRequest{line(p1, "10", "5"), line(p3, "2", "3")},
	}, testUser)
	require.NoError(t, err)
	require.Len(t, updated.Items, 2)
	assert.True(t, updated.TotalAmount.Equal(d("56")))

	// la línea de p2 desaparece con su lote y su stock
	assert.True(t, f.product(t, p2).Stock.IsZero())
	lots2, err := f.store.Repos().Lots.ListByProduct(p2)
	require.NoError(t, err)
	assert.Empty(t, lots2)

	// la línea nueva de p3 se recibe anclada a la fecha de la compra
	assert.True(t, f.product(t, p3).Stock.Equal(d("2")))
	lots3, err := f.store.Repos().Lots.ListByProduct(p3)
	require.NoError(t, err)
	require.Len(t, lots3, 1)
	assert.True(t, lots3[0].EntryDate.Equal(march(1)))

	cm, err := f.store.Repos().CashMovs.GetByReference(p.ID)
	require.NoError(t, err)
	assert.True(t, cm.Amount.Equal(d("-56")))
	f.verifyCash(t)
}

func TestUpdate_NoEliminaLineaVendida(t *testing.T) {
	f := newFixture(t)
	p1 := f.seedProduct(t, "SKU-1", "20")
	p2 := f.seedProduct(t, "SKU-2", "15")
	p := f.buy(t, march(1), line(p1, "10", "5"), line(p2, "4", "7"))
	f.sell(t, p2, "1")

	_, err := f.purchaseUC.Update(context.Background(), p.ID, dto.UpdatePurchaseRequest{
		Lines: []dto.PurchaseLineRequest{line(p1, "10", "5")},
	}, testUser)
	require.ErrorIs(t, err, domain.ErrLineInUse)
	assert.True(t, f.product(t, p2).Stock.Equal(d("3")), "el rechazo no muta nada")
}

func TestAnnul_RevierteLotesStockYCaja(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "SKU-1", "20")
	p := f.buy(t, march(1), line(productID, "10", "5"))

	annulled, err := f.purchaseUC.Annul(context.Background(), p.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusAnnulled, annulled.Status)

	lot := f.lot(t, p.Items[0].LotID)
	assert.True(t, lot.Quantity.IsZero())
	assert.Equal(t, entity.LotStatusDeleted, lot.Status)
	assert.True(t, f.product(t, productID).Stock.IsZero())

	compensations, err := f.store.Repos().StockMovs.ListByReferenceAndSubtype(p.ID, entity.MovementSubtypePurchaseAnnulment)
	require.NoError(t, err)
	require.Len(t, compensations, 1)
	assert.True(t, compensations[0].Quantity.Equal(d("-10")))

	// el efecto de caja del documento se borra, no se contraasienta
	cm, err := f.store.Repos().CashMovs.GetByReference(p.ID)
	require.NoError(t, err)
	assert.Nil(t, cm)
	assert.Empty(t, f.verifyCash(t))

	_, err = f.purchaseUC.Annul(context.Background(), p.ID, testUser)
	assert.ErrorIs(t, err, domain.ErrAlreadyAnnulled)

	_, err = f.purchaseUC.Update(context.Background(), p.ID, dto.UpdatePurchaseRequest{
		Lines: []dto.PurchaseLineRequest{line(productID, "1", "5")},
	}, testUser)
	assert.ErrorIs(t, err, domain.ErrAlreadyAnnulled)
}

// Una sola línea con unidades vendidas rechaza la anulación completa sin
// tocar las demás.
func TestAnnul_LoteTocadoAbortaTodo(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "SKU-1", "20")
	p := f.buy(t, march(1), line(productID, "10", "5"))
	f.sell(t, productID, "1")

	_, err := f.purchaseUC.Annul(context.Background(), p.ID, testUser)
	require.ErrorIs(t, err, domain.ErrLotInUse)

	lot := f.lot(t, p.Items[0].LotID)
	assert.True(t, lot.Quantity.Equal(d("9")))
	assert.Equal(t, entity.LotStatusActive, lot.Status)
	assert.True(t, f.product(t, productID).Stock.Equal(d("9")))

	cm, err := f.store.Repos().CashMovs.GetByReference(p.ID)
	require.NoError(t, err)
	require.NotNil(t, cm, "la salida de caja de la compra sigue viva")

	got, err := f.purchaseUC.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusRegistered, got.Status)
}

func TestGetByID_NoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.purchaseUC.GetByID(uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
