package sale

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercio-api/internal/application/cash"
	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/inventory"
	"github.com/jhoicas/comercio-api/internal/application/uow"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// Create registra una venta. Antes de tocar lote alguno se verifica la
// disponibilidad agregada por producto (sumando todas las líneas): un
// faltante en cualquier línea aborta la venta completa sin mutación parcial.
// Luego cada línea consume FIFO, el documento fija precio y costo por línea,
// y la caja recibe la entrada por el total. Una transacción.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateSaleRequest, userID string) (*entity.Sale, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Lines {
		if line.ProductID == "" || !line.Quantity.IsPositive() || line.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.DeliveryCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var out *entity.Sale
	err := uc.runner.Run(ctx, func(r uow.Repos) error {
		seq, err := r.Sequences.Next(repository.SequenceSale, now.Year())
		if err != nil {
			return err
		}
		saleID := fmt.Sprintf("V-%d-%05d", now.Year(), seq)

		// Pre-validación: bloquear cada producto y verificar que el stock
		// agregado cubre la suma de sus líneas, antes de consumir nada.
		requested := make(map[string]decimal.Decimal)
		order := make([]string, 0, len(in.Lines))
		for _, line := range in.Lines {
			if _, seen := requested[line.ProductID]; !seen {
				order = append(order, line.ProductID)
			}
			requested[line.ProductID] = requested[line.ProductID].Add(line.Quantity)
		}
		products := make(map[string]*entity.Product, len(requested))
		for _, productID := range order {
			product, err := r.Products.GetForUpdate(productID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
			}
			if product.Stock.LessThan(requested[productID]) {
				return &domain.InsufficientStockError{
					ProductID: productID,
					Requested: requested[productID],
					Available: product.Stock,
				}
			}
			products[productID] = product
		}

		s := &entity.Sale{
			ID:           saleID,
			CustomerName: in.CustomerName,
			Date:         now,
			DeliveryCost: in.DeliveryCost,
			Status:       entity.SaleStatusPaid,
			CreatedBy:    userID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		subtotal := decimal.Zero
		totalCost := decimal.Zero
		for _, line := range in.Lines {
			product := products[line.ProductID]
			price := line.UnitPrice
			if price.IsZero() {
				price = product.Price
			}

			res, err := inventory.ConsumeInTx(r, product, line.Quantity, saleID, now, userID)
			if err != nil {
				return err
			}
			subtotal = subtotal.Add(price.Mul(line.Quantity))
			totalCost = totalCost.Add(res.TotalCost)
			s.Items = append(s.Items, &entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    saleID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: price,
				UnitCost:  res.AverageUnitCost,
			})
		}

		s.Subtotal = subtotal
		s.TotalCost = totalCost
		s.TotalAmount = subtotal.Add(in.DeliveryCost)
		s.Profit = subtotal.Sub(totalCost)
		if err := r.Sales.Create(s); err != nil {
			return err
		}

		cm := &entity.CashMovement{
			ID:          uuid.New().String(),
			Type:        entity.CashTypeEntrada,
			Amount:      s.TotalAmount,
			Category:    cashCategory,
			Description: "Venta " + saleID,
			Date:        now,
			ReferenceID: &s.ID,
			CreatedBy:   userID,
			CreatedAt:   now,
		}
		if err := cash.AppendInTx(r, cm); err != nil {
			return err
		}

		out, err = r.Sales.GetByID(saleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
