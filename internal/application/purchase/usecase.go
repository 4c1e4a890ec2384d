// Package purchase orquesta el ciclo de vida de las compras: alta, edición
// por reconciliación de líneas y anulación. Cada operación toca lotes,
// movimientos de stock y caja dentro de una sola transacción.
package purchase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/uow"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// Categoría con que las compras registran su salida de caja.
const cashCategory = "COMPRAS"

// UseCase orquestador de compras.
type UseCase struct {
	runner       uow.Runner
	purchaseRepo repository.PurchaseRepository // atado al pool, solo lecturas
}

// NewUseCase construye el orquestador.
func NewUseCase(runner uow.Runner, purchaseRepo repository.PurchaseRepository) *UseCase {
	return &UseCase{runner: runner, purchaseRepo: purchaseRepo}
}

// GetByID devuelve la compra hidratada.
func (uc *UseCase) GetByID(id string) (*entity.Purchase, error) {
	p, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// List devuelve compras recientes.
func (uc *UseCase) List(limit, offset int) ([]*entity.Purchase, error) {
	return uc.purchaseRepo.List(limit, offset)
}

// validateLines valida las líneas y verifica que no haya productos repetidos:
// la reconciliación de ediciones está keyed por producto.
func validateLines(lines []dto.PurchaseLineRequest) error {
	if len(lines) == 0 {
		return domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if line.ProductID == "" || !line.Quantity.IsPositive() || line.UnitCost.IsNegative() {
			return domain.ErrInvalidInput
		}
		if seen[line.ProductID] {
			return fmt.Errorf("%w: producto %s repetido en las líneas", domain.ErrInvalidInput, line.ProductID)
		}
		seen[line.ProductID] = true
	}
	return nil
}

// linesTotal calcula el total del documento: Σ cantidad * costo unitario.
func linesTotal(lines []dto.PurchaseLineRequest) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Quantity.Mul(line.UnitCost))
	}
	return total
}
