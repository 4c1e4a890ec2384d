package repository

import (
	"time"

	"github.com/jhoicas/comercio-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para StockMovement.
// Los movimientos son de solo inserción: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// ListByReferenceAndSubtype devuelve los movimientos de un documento
	// (venta o compra) con el subtipo dado, en orden de creación.
	ListByReferenceAndSubtype(referenceID, subtype string) ([]*entity.StockMovement, error)
	List(from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
