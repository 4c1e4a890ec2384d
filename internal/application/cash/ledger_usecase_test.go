package cash_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comercio-api/internal/application/cash"
	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/uow"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/ledger"
	"github.com/jhoicas/comercio-api/internal/infrastructure/memory"
)

const testUser = "u-test"

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(n int) time.Time {
	return time.Date(2026, 3, n, 0, 0, 0, 0, time.UTC)
}

func newUseCase(t *testing.T) (*cash.LedgerUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return cash.NewLedgerUseCase(store, store.Repos().CashMovs), store
}

func appendOn(t *testing.T, uc *cash.LedgerUseCase, movType string, amount string, n int) *entity.CashMovement {
	t.Helper()
	date := day(n)
	m, err := uc.Append(context.Background(), dto.CreateCashMovementRequest{
		Type:     movType,
		Amount:   d(amount),
		Category: "OTROS",
		Date:     &date,
	}, testUser)
	require.NoError(t, err)
	return m
}

func chain(t *testing.T, store *memory.Store) []*entity.CashMovement {
	t.Helper()
	movs, err := store.Repos().CashMovs.List(nil, nil, 100, 0)
	require.NoError(t, err)
	require.True(t, ledger.Verify(decimal.Zero, movs), "la cadena de saldos debe ser consistente")
	return movs
}

func TestAppend_EncadenaSaldos(t *testing.T) {
	uc, store := newUseCase(t)

	appendOn(t, uc, entity.CashTypeEntrada, "100", 1)
	appendOn(t, uc, entity.CashTypeSalida, "30", 2)

	movs := chain(t, store)
	require.Len(t, movs, 2)
	assert.True(t, movs[0].Amount.Equal(d("100")))
	assert.True(t, movs[0].NewBalance.Equal(d("100")))
	assert.True(t, movs[1].Amount.Equal(d("-30")), "las salidas se guardan con monto negativo")
	assert.True(t, movs[1].PreviousBalance.Equal(d("100")))
	assert.True(t, movs[1].NewBalance.Equal(d("70")))
}

// ENTRADA 100 el día 1 y SALIDA 30 el día 3; después llega una ENTRADA 20
// fechada el día 2. El movimiento retroactivo se encadena en su posición y
// la salida del día 3 pasa de 100→70 a 120→90.
func TestAppend_FechaRetroactivaRecalculaLaCola(t *testing.T) {
	uc, store := newUseCase(t)

	appendOn(t, uc, entity.CashTypeEntrada, "100", 1)
	appendOn(t, uc, entity.CashTypeSalida, "30", 3)
	appendOn(t, uc, entity.CashTypeEntrada, "20", 2)

	movs := chain(t, store)
	require.Len(t, movs, 3)
	assert.True(t, movs[1].Date.Equal(day(2)))
	assert.True(t, movs[1].PreviousBalance.Equal(d("100")))
	assert.True(t, movs[1].NewBalance.Equal(d("120")))
	assert.True(t, movs[2].PreviousBalance.Equal(d("120")))
	assert.True(t, movs[2].NewBalance.Equal(d("90")))
}

func TestAppend_Invalido(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Append(ctx, dto.CreateCashMovementRequest{Type: "TRANSFERENCIA", Amount: d("10"), Category: "OTROS"}, testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Append(ctx, dto.CreateCashMovementRequest{Type: entity.CashTypeEntrada, Amount: decimal.Zero, Category: "OTROS"}, testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Append(ctx, dto.CreateCashMovementRequest{Type: entity.CashTypeEntrada, Amount: d("10")}, testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_MontoRecalculaDesdeSuFecha(t *testing.T) {
	uc, store := newUseCase(t)

	appendOn(t, uc, entity.CashTypeEntrada, "100", 1)
	mid := appendOn(t, uc, entity.CashTypeEntrada, "20", 2)
	appendOn(t, uc, entity.CashTypeSalida, "30", 3)

	amount := d("50")
	_, err := uc.Update(context.Background(), mid.ID, dto.UpdateCashMovementRequest{Amount: &amount}, testUser)
	require.NoError(t, err)

	movs := chain(t, store)
	assert.True(t, movs[1].NewBalance.Equal(d("150")))
	assert.True(t, movs[2].PreviousBalance.Equal(d("150")))
	assert.True(t, movs[2].NewBalance.Equal(d("120")))
}

// Al mover un movimiento hacia atrás en el tiempo, el recálculo parte de la
// fecha más antigua entre la vieja y la nueva.
func TestUpdate_CambioDeFechaReordena(t *testing.T) {
	uc, store := newUseCase(t)

	appendOn(t, uc, entity.CashTypeEntrada, "100", 2)
	late := appendOn(t, uc, entity.CashTypeEntrada, "20", 5)

	newDate := day(1)
	_, err := uc.Update(context.Background(), late.ID, dto.UpdateCashMovementRequest{Date: &newDate}, testUser)
	require.NoError(t, err)

	movs := chain(t, store)
	require.Len(t, movs, 2)
	assert.Equal(t, late.ID, movs[0].ID)
	assert.True(t, movs[0].NewBalance.Equal(d("20")))
	assert.True(t, movs[1].PreviousBalance.Equal(d("20")))
	assert.True(t, movs[1].NewBalance.Equal(d("120")))
}

func TestUpdate_SoloManuales(t *testing.T) {
	uc, store := newUseCase(t)

	refID := uuid.New().String()
	var generated *entity.CashMovement
	err := store.Run(context.Background(), func(r uow.Repos) error {
		generated = &entity.CashMovement{
			ID:          uuid.New().String(),
			Type:        entity.CashTypeSalida,
			Amount:      d("-50"),
			Category:    "COMPRAS",
			Date:        day(1),
			ReferenceID: &refID,
		}
		return cash.AppendInTx(r, generated)
	})
	require.NoError(t, err)

	amount := d("10")
	_, err = uc.Update(context.Background(), generated.ID, dto.UpdateCashMovementRequest{Amount: &amount}, testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = uc.Delete(context.Background(), generated.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete_ReparaLaCadena(t *testing.T) {
	uc, store := newUseCase(t)

	appendOn(t, uc, entity.CashTypeEntrada, "100", 1)
	mid := appendOn(t, uc, entity.CashTypeEntrada, "20", 2)
	appendOn(t, uc, entity.CashTypeSalida, "30", 3)

	require.NoError(t, uc.Delete(context.Background(), mid.ID))

	movs := chain(t, store)
	require.Len(t, movs, 2)
	assert.True(t, movs[1].PreviousBalance.Equal(d("100")))
	assert.True(t, movs[1].NewBalance.Equal(d("70")))
}

func TestDelete_NoExiste(t *testing.T) {
	uc, _ := newUseCase(t)
	err := uc.Delete(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
