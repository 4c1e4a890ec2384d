package inventory

import (
	"time"

	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// QueryUseCase lecturas de lotes y movimientos para colaboradores de
// reporting. Proyecciones planas, sin lógica de negocio.
type QueryUseCase struct {
	lotRepo repository.StockLotRepository
	movRepo repository.StockMovementRepository
}

// NewQueryUseCase construye el caso de uso de consulta.
func NewQueryUseCase(lotRepo repository.StockLotRepository, movRepo repository.StockMovementRepository) *QueryUseCase {
	return &QueryUseCase{lotRepo: lotRepo, movRepo: movRepo}
}

// ListLotsByProduct lista todos los lotes de un producto (cualquier estado).
func (uc *QueryUseCase) ListLotsByProduct(productID string) ([]*entity.StockLot, error) {
	return uc.lotRepo.ListByProduct(productID)
}

// ListMovementsByProduct lista movimientos de un producto en un rango de fechas.
func (uc *QueryUseCase) ListMovementsByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.movRepo.ListByProduct(productID, from, to, limit, offset)
}

// ListMovements lista todos los movimientos en un rango de fechas.
func (uc *QueryUseCase) ListMovements(from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.movRepo.List(from, to, limit, offset)
}
