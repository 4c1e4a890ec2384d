package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/ledger"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(n int) time.Time {
	return time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC)
}

func mov(id string, date time.Time, seq int64, amount string) *entity.CashMovement {
	return &entity.CashMovement{ID: id, Date: date, Seq: seq, Amount: d(amount)}
}

func TestSignedAmount(t *testing.T) {
	assert.True(t, ledger.SignedAmount(entity.CashTypeSalida, d("30")).Equal(d("-30")),
		"SALIDA con monto positivo debe quedar negativa")
	assert.True(t, ledger.SignedAmount(entity.CashTypeEntrada, d("-30")).Equal(d("30")),
		"ENTRADA con monto negativo debe quedar positiva")
	assert.True(t, ledger.SignedAmount(entity.CashTypeSalida, d("-30")).Equal(d("-30")),
		"monto ya firmado se respeta")
	assert.True(t, ledger.SignedAmount(entity.CashTypeEntrada, d("30")).Equal(d("30")))
}

func TestRebalance_EncadenaSaldos(t *testing.T) {
	movs := []*entity.CashMovement{
		mov("a", day(1), 1, "100"),
		mov("b", day(2), 2, "-30"),
		mov("c", day(3), 3, "50"),
	}

	final := ledger.Rebalance(decimal.Zero, movs)

	assert.True(t, final.Equal(d("120")))
	assert.True(t, movs[0].PreviousBalance.Equal(d("0")))
	assert.True(t, movs[0].NewBalance.Equal(d("100")))
	assert.True(t, movs[1].PreviousBalance.Equal(d("100")))
	assert.True(t, movs[1].NewBalance.Equal(d("70")))
	assert.True(t, movs[2].PreviousBalance.Equal(d("70")))
	assert.True(t, movs[2].NewBalance.Equal(d("120")))
	assert.True(t, ledger.Verify(decimal.Zero, movs))
}

func TestRebalance_ConSemilla(t *testing.T) {
	movs := []*entity.CashMovement{mov("a", day(5), 1, "-40")}

	final := ledger.Rebalance(d("100"), movs)

	assert.True(t, final.Equal(d("60")))
	assert.True(t, movs[0].PreviousBalance.Equal(d("100")))
}

// Inserción retroactiva: ENTRADA 100 el día 1, SALIDA 30 el día 3, y después
// llega una ENTRADA 20 fechada el día 2. Reordenando y plegando, el movimiento
// del día 2 queda 100→120 y el del día 3 queda 120→90.
func TestRebalance_InsercionRetroactiva(t *testing.T) {
	m1 := mov("m1", day(1), 1, "100")
	m3 := mov("m3", day(3), 2, "-30")
	m2 := mov("m2", day(2), 3, "20") // insertado después, con fecha anterior

	movs := []*entity.CashMovement{m1, m3, m2}
	ledger.SortChronological(movs)
	require.Equal(t, []*entity.CashMovement{m1, m2, m3}, movs,
		"el orden canónico es (Date, Seq)")

	ledger.Rebalance(decimal.Zero, movs)

	assert.True(t, m2.PreviousBalance.Equal(d("100")))
	assert.True(t, m2.NewBalance.Equal(d("120")))
	assert.True(t, m3.PreviousBalance.Equal(d("120")))
	assert.True(t, m3.NewBalance.Equal(d("90")))
	assert.True(t, ledger.Verify(decimal.Zero, movs))
}

// Seq desempata movimientos del mismo día en orden de inserción.
func TestSortChronological_DesempataPorSeq(t *testing.T) {
	a := mov("a", day(1), 2, "10")
	b := mov("b", day(1), 1, "20")

	movs := []*entity.CashMovement{a, b}
	ledger.SortChronological(movs)

	assert.Equal(t, "b", movs[0].ID)
	assert.Equal(t, "a", movs[1].ID)
}

func TestVerify_DetectaCadenaRota(t *testing.T) {
	movs := []*entity.CashMovement{
		mov("a", day(1), 1, "100"),
		mov("b", day(2), 2, "-30"),
	}
	ledger.Rebalance(decimal.Zero, movs)
	require.True(t, ledger.Verify(decimal.Zero, movs))

	movs[1].PreviousBalance = d("999")
	assert.False(t, ledger.Verify(decimal.Zero, movs))
}

func TestVerify_Vacio(t *testing.T) {
	assert.True(t, ledger.Verify(decimal.Zero, nil))
}
