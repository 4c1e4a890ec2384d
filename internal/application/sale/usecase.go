// Package sale orquesta las ventas: consumo FIFO del inventario, documento
// con utilidad calculada al costo real de los lotes y entrada de caja, todo
// en una transacción por operación.
package sale

import (
	"github.com/jhoicas/comercio-api/internal/application/uow"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// Categoría con que las ventas registran su entrada de caja.
const cashCategory = "VENTAS"

// UseCase orquestador de ventas.
type UseCase struct {
	runner   uow.Runner
	saleRepo repository.SaleRepository // atado al pool, solo lecturas
}

// NewUseCase construye el orquestador.
func NewUseCase(runner uow.Runner, saleRepo repository.SaleRepository) *UseCase {
	return &UseCase{runner: runner, saleRepo: saleRepo}
}

// GetByID devuelve la venta hidratada.
func (uc *UseCase) GetByID(id string) (*entity.Sale, error) {
	s, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// List devuelve ventas recientes.
func (uc *UseCase) List(limit, offset int) ([]*entity.Sale, error) {
	return uc.saleRepo.List(limit, offset)
}
