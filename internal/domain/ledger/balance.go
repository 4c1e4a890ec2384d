// Package ledger contiene la lógica pura de la cadena de saldos de caja.
// Es independiente del almacenamiento: recibe movimientos ya ordenados y
// reescribe sus saldos; el caso de uso decide qué rango cargar y persistir.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercio-api/internal/domain/entity"
)

// SignedAmount devuelve el monto con el signo que le corresponde al tipo:
// ENTRADA positivo, SALIDA negativo. El monto ya firmado se respeta.
func SignedAmount(movType string, amount decimal.Decimal) decimal.Decimal {
	if movType == entity.CashTypeSalida && amount.IsPositive() {
		return amount.Neg()
	}
	if movType == entity.CashTypeEntrada && amount.IsNegative() {
		return amount.Neg()
	}
	return amount
}

// Rebalance repara la cadena de saldos plegando hacia adelante desde seed.
// movs debe venir ordenado por (Date, Seq); se modifican en sitio
// PreviousBalance y NewBalance de cada movimiento. Devuelve el saldo final.
//
// Esta es la pieza central del recálculo: cualquier inserción, edición o
// borrado con fecha arbitraria se resuelve cargando la cola afectada y
// plegándola de nuevo — nunca con un total cacheado.
func Rebalance(seed decimal.Decimal, movs []*entity.CashMovement) decimal.Decimal {
	balance := seed
	for _, m := range movs {
		m.PreviousBalance = balance
		m.NewBalance = balance.Add(m.Amount)
		balance = m.NewBalance
	}
	return balance
}

// SortChronological ordena movimientos por (Date, Seq), el orden canónico de la
// cadena de saldos.
func SortChronological(movs []*entity.CashMovement) {
	sort.SliceStable(movs, func(i, j int) bool {
		if !movs[i].Date.Equal(movs[j].Date) {
			return movs[i].Date.Before(movs[j].Date)
		}
		return movs[i].Seq < movs[j].Seq
	})
}

// Verify comprueba el invariante de la cadena sobre movimientos ya ordenados:
// NewBalance(i) == PreviousBalance(i) + Amount(i) y el encadenado con el
// anterior partiendo de seed. Devuelve false ante la primera inconsistencia.
func Verify(seed decimal.Decimal, movs []*entity.CashMovement) bool {
	balance := seed
	for _, m := range movs {
		if !m.PreviousBalance.Equal(balance) {
			return false
		}
		if !m.NewBalance.Equal(m.PreviousBalance.Add(m.Amount)) {
			return false
		}
		balance = m.NewBalance
	}
	return true
}
