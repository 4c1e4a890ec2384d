package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercio-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE): serializa
	// compras y ventas concurrentes sobre el mismo producto.
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(productID string, stock decimal.Decimal) error
	List(limit, offset int) ([]*entity.Product, error)
}
