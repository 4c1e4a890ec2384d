// Package memory implementa todos los puertos de persistencia sobre mapas en
// memoria, con semántica transaccional por snapshot: Run clona el estado,
// ejecuta el callback contra el clon y solo si no hay error lo publica.
// Se usa en modo desarrollo (sin PostgreSQL) y en los tests de casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/comercio-api/internal/application/uow"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// Store estado en memoria del negocio. Un solo mutex serializa todas las
// unidades de trabajo: equivale al aislamiento serializable del almacén real.
type Store struct {
	mu   sync.Mutex
	data *data
}

type data struct {
	products      map[string]entity.Product
	lots          map[string]entity.StockLot
	stockMovs     []entity.StockMovement
	cashMovs      map[string]entity.CashMovement
	cashSeq       int64
	purchases     map[string]entity.Purchase
	purchaseItems map[string]entity.PurchaseItem
	sales         map[string]entity.Sale
	saleItems     map[string]entity.SaleItem
	suppliers     map[string]entity.Supplier
	users         map[string]entity.User
	seqs          map[string]int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newData()}
}

func newData() *data {
	return &data{
		products:      map[string]entity.Product{},
		lots:          map[string]entity.StockLot{},
		cashMovs:      map[string]entity.CashMovement{},
		purchases:     map[string]entity.Purchase{},
		purchaseItems: map[string]entity.PurchaseItem{},
		sales:         map[string]entity.Sale{},
		saleItems:     map[string]entity.SaleItem{},
		suppliers:     map[string]entity.Supplier{},
		users:         map[string]entity.User{},
		seqs:          map[string]int64{},
	}
}

func (d *data) clone() *data {
	c := &data{
		products:      make(map[string]entity.Product, len(d.products)),
		lots:          make(map[string]entity.StockLot, len(d.lots)),
		stockMovs:     make([]entity.StockMovement, len(d.stockMovs)),
		cashMovs:      make(map[string]entity.CashMovement, len(d.cashMovs)),
		cashSeq:       d.cashSeq,
		purchases:     make(map[string]entity.Purchase, len(d.purchases)),
		purchaseItems: make(map[string]entity.PurchaseItem, len(d.purchaseItems)),
		sales:         make(map[string]entity.Sale, len(d.sales)),
		saleItems:     make(map[string]entity.SaleItem, len(d.saleItems)),
		suppliers:     make(map[string]entity.Supplier, len(d.suppliers)),
		users:         make(map[string]entity.User, len(d.users)),
		seqs:          make(map[string]int64, len(d.seqs)),
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.lots {
		c.lots[k] = v
	}
	copy(c.stockMovs, d.stockMovs)
	for k, v := range d.cashMovs {
		c.cashMovs[k] = v
	}
	for k, v := range d.purchases {
		v.Items = nil // las líneas viven en purchaseItems
		c.purchases[k] = v
	}
	for k, v := range d.purchaseItems {
		c.purchaseItems[k] = v
	}
	for k, v := range d.sales {
		v.Items = nil
		c.sales[k] = v
	}
	for k, v := range d.saleItems {
		c.saleItems[k] = v
	}
	for k, v := range d.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.seqs {
		c.seqs[k] = v
	}
	return c
}

var _ uow.Runner = (*Store)(nil)

// Run ejecuta fn contra un snapshot del estado; si fn devuelve nil el
// snapshot se publica (commit), si devuelve error se descarta (rollback).
func (s *Store) Run(_ context.Context, fn func(r uow.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(reposFor(snapshot, nil)); err != nil {
		return err
	}
	s.data = snapshot
	return nil
}

// Repos devuelve repositorios "de pool": cada llamada toma el mutex y opera
// sobre el estado publicado. Para lecturas fuera de transacción.
func (s *Store) Repos() uow.Repos {
	return reposFor(nil, s)
}

func reposFor(d *data, s *Store) uow.Repos {
	b := binding{d: d, s: s}
	return uow.Repos{
		Products:  &productRepo{b},
		Lots:      &lotRepo{b},
		StockMovs: &stockMovementRepo{b},
		CashMovs:  &cashMovementRepo{b},
		Purchases: &purchaseRepo{b},
		Sales:     &saleRepo{b},
		Suppliers: &supplierRepo{b},
		Sequences: &sequenceRepo{b},
	}
}

// Users devuelve el repositorio de usuarios (fuera de uow.Repos: auth no
// participa en las unidades de trabajo del motor).
func (s *Store) Users() repository.UserRepository {
	return &userRepo{binding{d: nil, s: s}}
}

// binding resuelve contra qué estado opera un repo: el snapshot de una
// transacción (d) o el estado publicado del store (s, con mutex).
type binding struct {
	d *data
	s *Store
}

func (b binding) acquire() (*data, func()) {
	if b.d != nil {
		return b.d, func() {}
	}
	b.s.mu.Lock()
	return b.s.data, b.s.mu.Unlock
}
