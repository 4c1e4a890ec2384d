package dto

import "github.com/jhoicas/comercio-api/internal/domain/entity"

// Conversión entidad -> DTO de respuesta. Los handlers nunca serializan
// entidades directo: el contrato JSON vive aquí.

// FromProduct convierte un producto.
func FromProduct(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:    p.ID,
		SKU:   p.SKU,
		Name:  p.Name,
		Stock: p.Stock,
		Price: p.Price,
		Cost:  p.Cost,
	}
}

// FromSupplier convierte un proveedor.
func FromSupplier(s *entity.Supplier) SupplierResponse {
	return SupplierResponse{ID: s.ID, Name: s.Name, Phone: s.Phone}
}

// FromCashMovement convierte un movimiento de caja.
func FromCashMovement(m *entity.CashMovement) CashMovementResponse {
	return CashMovementResponse{
		ID:              m.ID,
		Type:            m.Type,
		Amount:          m.Amount,
		Category:        m.Category,
		Description:     m.Description,
		Date:            m.Date,
		PreviousBalance: m.PreviousBalance,
		NewBalance:      m.NewBalance,
		ReferenceID:     m.ReferenceID,
	}
}

// FromPurchase convierte una compra hidratada.
func FromPurchase(p *entity.Purchase) PurchaseResponse {
	out := PurchaseResponse{
		ID:            p.ID,
		InvoiceNumber: p.InvoiceNumber,
		SupplierID:    p.SupplierID,
		Date:          p.Date,
		TotalAmount:   p.TotalAmount,
		Status:        p.Status,
		Items:         make([]PurchaseItemResponse, 0, len(p.Items)),
	}
	for _, it := range p.Items {
		out.Items = append(out.Items, PurchaseItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitCost:  it.UnitCost,
			LotID:     it.LotID,
		})
	}
	return out
}

// FromSale convierte una venta hidratada.
func FromSale(s *entity.Sale) SaleResponse {
	out := SaleResponse{
		ID:           s.ID,
		CustomerName: s.CustomerName,
		Date:         s.Date,
		Subtotal:     s.Subtotal,
		DeliveryCost: s.DeliveryCost,
		TotalAmount:  s.TotalAmount,
		TotalCost:    s.TotalCost,
		Profit:       s.Profit,
		Status:       s.Status,
		Items:        make([]SaleItemResponse, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			UnitCost:  it.UnitCost,
		})
	}
	return out
}

// FromStockLot convierte un lote.
func FromStockLot(l *entity.StockLot) StockLotResponse {
	return StockLotResponse{
		ID:               l.ID,
		ProductID:        l.ProductID,
		Quantity:         l.Quantity,
		OriginalQuantity: l.OriginalQuantity,
		CostPerUnit:      l.CostPerUnit,
		EntryDate:        l.EntryDate,
		ExpiryDate:       l.ExpiryDate,
		Status:           l.Status,
	}
}

// FromStockMovement convierte un movimiento de stock.
func FromStockMovement(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		LotID:       m.LotID,
		Quantity:    m.Quantity,
		Type:        m.Type,
		Subtype:     m.Subtype,
		UnitCost:    m.UnitCost,
		TotalCost:   m.TotalCost,
		ReferenceID: m.ReferenceID,
		Date:        m.Date,
		CreatedBy:   m.CreatedBy,
	}
}
