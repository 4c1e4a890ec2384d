package repository

import "github.com/jhoicas/comercio-api/internal/domain/entity"

// StockLotRepository define el puerto de persistencia para StockLot (DIP).
type StockLotRepository interface {
	Create(lot *entity.StockLot) error
	GetByID(id string) (*entity.StockLot, error)
	// GetForUpdate bloquea la fila del lote (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.StockLot, error)
	Update(lot *entity.StockLot) error
	Delete(id string) error
	// ListActiveByProduct devuelve lotes ACTIVOS con cantidad > 0 en orden FIFO
	// (entry_date ascendente, id como desempate).
	ListActiveByProduct(productID string) ([]*entity.StockLot, error)
	ListByProduct(productID string) ([]*entity.StockLot, error)
}
