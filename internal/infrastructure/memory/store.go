// Package memory implementa los puertos de persistencia en memoria. Se usa con
// STORAGE_DRIVER=memory (demo local) y en las pruebas de casos de uso y handlers.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

type stockKey struct{ productID, sedeID string }

type seqKey struct{ sedeID, kind string }

// state contenido completo de la base en memoria.
type state struct {
	sedes      map[string]entity.Sede
	users      map[string]entity.User
	categories map[string]entity.Category
	providers  map[string]entity.Provider
	products   map[string]entity.Product
	stock      map[stockKey]entity.Stock
	movements  []entity.Movement
	sales      map[string]entity.Sale
	entries    map[string]entity.StockEntry
	exits      []entity.StockExit
	tickets    map[string]entity.Ticket
	sequences  map[seqKey]int64
}

func newState() *state {
	return &state{
		sedes:      map[string]entity.Sede{},
		users:      map[string]entity.User{},
		categories: map[string]entity.Category{},
		providers:  map[string]entity.Provider{},
		products:   map[string]entity.Product{},
		stock:      map[stockKey]entity.Stock{},
		sales:      map[string]entity.Sale{},
		entries:    map[string]entity.StockEntry{},
		tickets:    map[string]entity.Ticket{},
		sequences:  map[seqKey]int64{},
	}
}

// clone copia profunda: las entidades con slices se copian al leer y escribir.
func (s *state) clone() *state {
	return &state{
		sedes:      maps.Clone(s.sedes),
		users:      maps.Clone(s.users),
		categories: maps.Clone(s.categories),
		providers:  maps.Clone(s.providers),
		products:   maps.Clone(s.products),
		stock:      maps.Clone(s.stock),
		movements:  slices.Clone(s.movements),
		sales:      maps.Clone(s.sales),
		entries:    maps.Clone(s.entries),
		exits:      slices.Clone(s.exits),
		tickets:    maps.Clone(s.tickets),
		sequences:  maps.Clone(s.sequences),
	}
}

// view da acceso al estado: directo dentro de una transacción, con lock fuera de ella.
type view interface {
	do(fn func(st *state) error) error
}

// Store base de datos en memoria. Las transacciones se serializan con un mutex y
// trabajan sobre una copia que solo se publica si la función termina sin error.
type Store struct {
	mu   sync.Mutex
	data *state
}

// NewStore crea una base vacía.
func NewStore() *Store {
	return &Store{data: newState()}
}

func (s *Store) do(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

type txView struct{ st *state }

func (v txView) do(fn func(st *state) error) error { return fn(v.st) }

// Repos agrupa los repositorios fuera de transacción.
type Repos struct {
	Sedes      repository.SedeRepository
	Users      repository.UserRepository
	Categories repository.CategoryRepository
	Providers  repository.ProviderRepository
	Products   repository.ProductRepository
	Stock      repository.StockRepository
	Movements  repository.MovementRepository
	Sales      repository.SaleRepository
	Entries    repository.StockEntryRepository
	Exits      repository.StockExitRepository
	Tickets    repository.TicketRepository
	Analytics  repository.AnalyticsRepository
}

// Repos devuelve los repositorios sobre el estado publicado.
func (s *Store) Repos() Repos {
	return Repos{
		Sedes:      &SedeRepo{v: s},
		Users:      &UserRepo{v: s},
		Categories: &CategoryRepo{v: s},
		Providers:  &ProviderRepo{v: s},
		Products:   &ProductRepo{v: s},
		Stock:      &StockRepo{v: s},
		Movements:  &MovementRepo{v: s},
		Sales:      &SaleRepo{v: s},
		Entries:    &StockEntryRepo{v: s},
		Exits:      &StockExitRepo{v: s},
		Tickets:    &TicketRepo{v: s},
		Analytics:  &AnalyticsRepo{v: s},
	}
}

// TxRunner implementa inventory.TxRunner sobre el Store.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner de transacciones en memoria.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

var _ inventory.TxRunner = (*TxRunner)(nil)

// Run ejecuta fn sobre una copia del estado; Commit publica la copia, cualquier error la descarta.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := r.s.data.clone()
	v := txView{st: work}
	err := fn(inventory.TxRepos{
		Stock:     &StockRepo{v: v},
		Movements: &MovementRepo{v: v},
		Products:  &ProductRepo{v: v},
		Sales:     &SaleRepo{v: v},
		Entries:   &StockEntryRepo{v: v},
		Exits:     &StockExitRepo{v: v},
		Sequences: &SequenceRepo{v: v},
	})
	if err != nil {
		return err
	}
	r.s.data = work
	return nil
}

// paginate aplica limit/offset a una lista ya filtrada y ordenada.
func paginate[T any](items []T, p repository.Page) ([]T, int) {
	total := len(items)
	if p.Offset >= total {
		return []T{}, total
	}
	end := total
	if p.Limit > 0 && p.Offset+p.Limit < total {
		end = p.Offset + p.Limit
	}
	return items[p.Offset:end], total
}

func inRange(t time.Time, since, until *time.Time) bool {
	if since != nil && t.Before(*since) {
		return false
	}
	if until != nil && t.After(*until) {
		return false
	}
	return true
}

func ptr[T any](v T) *T { return &v }
