package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// SupplierUseCase CRUD de proveedores.
type SupplierUseCase struct {
	supplierRepo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(supplierRepo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{supplierRepo: supplierRepo}
}

// Create da de alta un proveedor.
func (uc *SupplierUseCase) Create(in dto.CreateSupplierRequest) (*entity.Supplier, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.supplierRepo.Create(s); err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID devuelve un proveedor.
func (uc *SupplierUseCase) GetByID(id string) (*entity.Supplier, error) {
	s, err := uc.supplierRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// List devuelve proveedores.
func (uc *SupplierUseCase) List(limit, offset int) ([]*entity.Supplier, error) {
	return uc.supplierRepo.List(limit, offset)
}
