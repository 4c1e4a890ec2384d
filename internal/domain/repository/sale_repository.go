package repository

import "github.com/jhoicas/comercio-api/internal/domain/entity"

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	// GetByID devuelve la venta hidratada con sus líneas; nil si no existe.
	GetByID(id string) (*entity.Sale, error)
	UpdateStatus(id, status string) error
	List(limit, offset int) ([]*entity.Sale, error)
}
