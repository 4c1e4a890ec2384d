package memory

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/inventory"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// Verificación en compilación de los puertos.
var (
	_ repository.ProductRepository       = (*productRepo)(nil)
	_ repository.StockLotRepository      = (*lotRepo)(nil)
	_ repository.StockMovementRepository = (*stockMovementRepo)(nil)
	_ repository.CashMovementRepository  = (*cashMovementRepo)(nil)
	_ repository.PurchaseRepository      = (*purchaseRepo)(nil)
	_ repository.SaleRepository          = (*saleRepo)(nil)
	_ repository.SupplierRepository      = (*supplierRepo)(nil)
	_ repository.UserRepository          = (*userRepo)(nil)
	_ repository.SequenceRepository      = (*sequenceRepo)(nil)
)

func paginate[T any](xs []*T, limit, offset int) []*T {
	if offset >= len(xs) {
		return nil
	}
	xs = xs[offset:]
	if limit > 0 && limit < len(xs) {
		xs = xs[:limit]
	}
	return xs
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// --- productos ---

type productRepo struct{ binding }

func (r *productRepo) Create(p *entity.Product) error {
	d, release := r.acquire()
	defer release()
	for _, existing := range d.products {
		if strings.EqualFold(existing.SKU, p.SKU) {
			return fmt.Errorf("%w: sku %s ya existe", domain.ErrInvalidInput, p.SKU)
		}
	}
	d.products[p.ID] = *p
	return nil
}

func (r *productRepo) GetByID(id string) (*entity.Product, error) {
	d, release := r.acquire()
	defer release()
	p, ok := d.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetForUpdate equivale a GetByID: Run ya serializa con el mutex del store.
func (r *productRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *productRepo) Update(p *entity.Product) error {
	d, release := r.acquire()
	defer release()
	if _, ok := d.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	d.products[p.ID] = *p
	return nil
}

func (r *productRepo) UpdateStock(productID string, stock decimal.Decimal) error {
	d, release := r.acquire()
	defer release()
	p, ok := d.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	p.UpdatedAt = time.Now()
	d.products[productID] = p
	return nil
}

func (r *productRepo) List(limit, offset int) ([]*entity.Product, error) {
	d, release := r.acquire()
	defer release()
	out := make([]*entity.Product, 0, len(d.products))
	for _, p := range d.products {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

// --- lotes ---

type lotRepo struct{ binding }

func (r *lotRepo) Create(l *entity.StockLot) error {
	d, release := r.acquire()
	defer release()
	d.lots[l.ID] = *l
	return nil
}

func (r *lotRepo) GetByID(id string) (*entity.StockLot, error) {
	d, release := r.acquire()
	defer release()
	l, ok := d.lots[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *lotRepo) GetForUpdate(id string) (*entity.StockLot, error) {
	return r.GetByID(id)
}

func (r *lotRepo) Update(l *entity.StockLot) error {
	d, release := r.acquire()
	defer release()
	if _, ok := d.lots[l.ID]; !ok {
		return domain.ErrNotFound
	}
	l.UpdatedAt = time.Now()
	d.lots[l.ID] = *l
	return nil
}

func (r *lotRepo) Delete(id string) error {
	d, release := r.acquire()
	defer release()
	if _, ok := d.lots[id]; !ok {
		return domain.ErrNotFound
	}
	delete(d.lots, id)
	return nil
}

func (r *lotRepo) ListActiveByProduct(productID string) ([]*entity.StockLot, error) {
	d, release := r.acquire()
	defer release()
	var out []*entity.StockLot
	for _, l := range d.lots {
		if l.ProductID == productID && l.Status == entity.LotStatusActive && l.Quantity.IsPositive() {
			l := l
			out = append(out, &l)
		}
	}
	inventory.SortFIFO(out)
	return out, nil
}

func (r *lotRepo) ListByProduct(productID string) ([]*entity.StockLot, error) {
	d, release := r.acquire()
	defer release()
	var out []*entity.StockLot
	for _, l := range d.lots {
		if l.ProductID == productID {
			l := l
			out = append(out, &l)
		}
	}
	inventory.SortFIFO(out)
	return out, nil
}

// --- movimientos de stock ---

type stockMovementRepo struct{ binding }

func (r *stockMovementRepo) Create(m *entity.StockMovement) error {
	d, release := r.acquire()
	defer release()
	d.stockMovs = append(d.stockMovs, *m)
	return nil
}

func (r *stockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	d, release := r.acquire()
	defer release()
	for i := range d.stockMovs {
		if d.stockMovs[i].ID == id {
			m := d.stockMovs[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (r *stockMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	d, release := r.acquire()
	defer release()
	var out []*entity.StockMovement
	for i := range d.stockMovs {
		m := d.stockMovs[i]
		if m.ProductID == productID && inRange(m.Date, from, to) {
			out = append(out, &m)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *stockMovementRepo) ListByReferenceAndSubtype(referenceID, subtype string) ([]*entity.StockMovement, error) {
	d, release := r.acquire()
	defer release()
	var out []*entity.StockMovement
	for i := range d.stockMovs {
		m := d.stockMovs[i]
		if m.ReferenceID != nil && *m.ReferenceID == referenceID && m.Subtype == subtype {
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r *stockMovementRepo) List(from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	d, release := r.acquire()
	defer release()
	var out []*entity.StockMovement
	for i := range d.stockMovs {
		m := d.stockMovs[i]
		if inRange(m.Date, from, to) {
			out = append(out, &m)
		}
	}
	return paginate(out, limit, offset), nil
}

// --- movimientos de caja ---

type cashMovementRepo struct{ binding }

func (r *cashMovementRepo) Create(m *entity.CashMovement) error {
	d, release := r.acquire()
	defer release()
	d.cashSeq++
	m.Seq = d.cashSeq
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	d.cashMovs[m.ID] = *m
	return nil
}

func (r *cashMovementRepo) GetByID(id string) (*entity.CashMovement, error) {
	d, release := r.acquire()
	defer release()
	m, ok := d.cashMovs[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *cashMovementRepo) GetByReference(referenceID string) (*entity.CashMovement, error) {
	d, release := r.acquire()
	defer release()
	for _, m := range d.cashMovs {
		if m.ReferenceID != nil && *m.ReferenceID == referenceID {
			m := m
			return &m, nil
		}
	}
	return nil, nil
}

func (r *cashMovementRepo) Update(m *entity.CashMovement) error {
	d, release := r.acquire()
	defer release()
	if _, ok := d.cashMovs[m.ID]; !ok {
		return domain.ErrNotFound
	}
	d.cashMovs[m.ID] = *m
	return nil
}

func (r *cashMovementRepo) UpdateBalances(m *entity.CashMovement) error {
	d, release := r.acquire()
	defer release()
	stored, ok := d.cashMovs[m.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.PreviousBalance = m.PreviousBalance
	stored.NewBalance = m.NewBalance
	d.cashMovs[m.ID] = stored
	return nil
}

func (r *cashMovementRepo) Delete(id string) error {
	d, release := r.acquire()
	defer release()
	if _, ok := d.cashMovs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(d.cashMovs, id)
	return nil
}

func (r *cashMovementRepo) sorted(d *data) []*entity.CashMovement {
	out := make([]*entity.CashMovement, 0, len(d.cashMovs))
	for _, m := range d.cashMovs {
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}

func (r *cashMovementRepo) LastBefore(date time.Time) (*entity.CashMovement, error) {
	d, release := r.acquire()
	defer release()
	var last *entity.CashMovement
	for _, m := range r.sorted(d) {
		if m.Date.Before(date) {
			last = m
		}
	}
	return last, nil
}

func (r *cashMovementRepo) ListFrom(date time.Time) ([]*entity.CashMovement, error) {
	d, release := r.acquire()
	defer release()
	var out []*entity.CashMovement
	for _, m := range r.sorted(d) {
		if !m.Date.Before(date) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *cashMovementRepo) List(from, to *time.Time, limit, offset int) ([]*entity.CashMovement, error) {
	d, release := r.acquire()
	defer release()
	var out []*entity.CashMovement
	for _, m := range r.sorted(d) {
		if inRange(m.Date, from, to) {
			out = append(out, m)
		}
	}
	return paginate(out, limit, offset), nil
}

// --- compras ---

type purchaseRepo struct{ binding }

func (r *purchaseRepo) Create(p *entity.Purchase) error {
	d, release := r.acquire()
	defer release()
	header := *p
	header.Items = nil
	d.purchases[p.ID] = header
	for _, it := range p.Items {
		d.purchaseItems[it.ID] = *it
	}
	return nil
}

func (r *purchaseRepo) hydrate(d *data, id string) *entity.Purchase {
	p, ok := d.purchases[id]
	if !ok {
		return nil
	}
	for _, it := range d.purchaseItems {
		if it.PurchaseID == id {
			it := it
			p.Items = append(p.Items, &it)
		}
	}
	sort.Slice(p.Items, func(i, j int) bool { return p.Items[i].ID < p.Items[j].ID })
	return &p
}

func (r *purchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	d, release := r.acquire()
	defer release()
	return r.hydrate(d, id), nil
}

func (r *purchaseRepo) UpdateHeader(p *entity.Purchase) error {
	d, release := r.acquire()
	defer release()
	if _, ok := d.purchases[p.ID]; !ok {
		return domain.ErrNotFound
	}
	header := *p
	header.Items = nil
	header.UpdatedAt = time.Now()
	d.purchases[p.ID] = header
	return nil
}

func (r *purchaseRepo) CreateItem(it *entity.PurchaseItem) error {
	d, release := r.acquire()
	defer release()
	d.purchaseItems[it.ID] = *it
	return nil
}

func (r *purchaseRepo) UpdateItem(it *entity.PurchaseItem) error {
	d, release := r.acquire()
	defer release()
	if _, ok := d.purchaseItems[it.ID]; !ok {
		return domain.ErrNotFound
	}
	d.purchaseItems[it.ID] = *it
	return nil
}

func (r *purchaseRepo) DeleteItem(id string) error {
	d, release := r.acquire()
	defer release()
	if _, ok := d.purchaseItems[id]; !ok {
		return domain.ErrNotFound
	}
	delete(d.purchaseItems, id)
	return nil
}

func (r *purchaseRepo) List(limit, offset int) ([]*entity.Purchase, error) {
	d, release := r.acquire()
	defer release()
	out := make([]*entity.Purchase, 0, len(d.purchases))
	for id := range d.purchases {
		out = append(out, r.hydrate(d, id))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].InvoiceNumber > out[j].InvoiceNumber
	})
	return paginate(out, limit, offset), nil
}

// --- ventas ---

type saleRepo struct{ binding }

func (r *saleRepo) Create(s *entity.Sale) error {
	d, release := r.acquire()
	defer release()
	header := *s
	header.Items = nil
	d.sales[s.ID] = header
	for _, it := range s.Items {
		d.saleItems[it.ID] = *it
	}
	return nil
}

func (r *saleRepo) hydrate(d *data, id string) *entity.Sale {
	s, ok := d.sales[id]
	if !ok {
		return nil
	}
	for _, it := range d.saleItems {
		if it.SaleID == id {
			it := it
			s.Items = append(s.Items, &it)
		}
	}
	sort.Slice(s.Items, func(i, j int) bool { return s.Items[i].ID < s.Items[j].ID })
	return &s
}

func (r *saleRepo) GetByID(id string) (*entity.Sale, error) {
	d, release := r.acquire()
	defer release()
	return r.hydrate(d, id), nil
}

func (r *saleRepo) UpdateStatus(id, status string) error {
	d, release := r.acquire()
	defer release()
	s, ok := d.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = status
	s.UpdatedAt = time.Now()
	d.sales[id] = s
	return nil
}

func (r *saleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	d, release := r.acquire()
	defer release()
	out := make([]*entity.Sale, 0, len(d.sales))
	for id := range d.sales {
		out = append(out, r.hydrate(d, id))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return paginate(out, limit, offset), nil
}

// --- proveedores ---

type supplierRepo struct{ binding }

func (r *supplierRepo) Create(s *entity.Supplier) error {
	d, release := r.acquire()
	defer release()
	d.suppliers[s.ID] = *s
	return nil
}

func (r *supplierRepo) GetByID(id string) (*entity.Supplier, error) {
	d, release := r.acquire()
	defer release()
	s, ok := d.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *supplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	d, release := r.acquire()
	defer release()
	out := make([]*entity.Supplier, 0, len(d.suppliers))
	for _, s := range d.suppliers {
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

// --- usuarios ---

type userRepo struct{ binding }

func (r *userRepo) Create(u *entity.User) error {
	d, release := r.acquire()
	defer release()
	for _, existing := range d.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	d.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(id string) (*entity.User, error) {
	d, release := r.acquire()
	defer release()
	u, ok := d.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(email string) (*entity.User, error) {
	d, release := r.acquire()
	defer release()
	for _, u := range d.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

// --- secuencias ---

type sequenceRepo struct{ binding }

func (r *sequenceRepo) Next(name string, year int) (int64, error) {
	d, release := r.acquire()
	defer release()
	key := fmt.Sprintf("%s-%d", name, year)
	d.seqs[key]++
	return d.seqs[key], nil
}
