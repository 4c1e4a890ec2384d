package repository

import "github.com/jhoicas/comercio-api/internal/domain/entity"

// PurchaseRepository define el puerto de persistencia para Purchase y sus líneas.
type PurchaseRepository interface {
	// Create persiste cabecera y líneas.
	Create(purchase *entity.Purchase) error
	// GetByID devuelve la compra hidratada con sus líneas; nil si no existe.
	GetByID(id string) (*entity.Purchase, error)
	UpdateHeader(purchase *entity.Purchase) error
	CreateItem(item *entity.PurchaseItem) error
	UpdateItem(item *entity.PurchaseItem) error
	DeleteItem(id string) error
	List(limit, offset int) ([]*entity.Purchase, error)
}
