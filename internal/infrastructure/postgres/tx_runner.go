package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := inventory.TxRepos{
		Stock:     NewStockRepository(tx),
		Movements: NewMovementRepository(tx),
		Products:  NewProductRepository(tx),
		Sales:     NewSaleRepository(tx),
		Entries:   NewStockEntryRepository(tx),
		Exits:     NewStockExitRepository(tx),
		Sequences: NewSequenceRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repos agrupa los repositorios sobre el pool (fuera de transacción).
type Repos struct {
	Sedes      *SedeRepo
	Users      *UserRepo
	Categories *CategoryRepo
	Providers  *ProviderRepo
	Products   *ProductRepo
	Stock      *StockRepo
	Movements  *MovementRepo
	Sales      *SaleRepo
	Entries    *StockEntryRepo
	Exits      *StockExitRepo
	Tickets    *TicketRepo
	Analytics  *AnalyticsRepo
}

// NewRepos construye todos los repositorios sobre el pool.
func NewRepos(pool *pgxpool.Pool) Repos {
	return Repos{
		Sedes:      NewSedeRepository(pool),
		Users:      NewUserRepository(pool),
		Categories: NewCategoryRepository(pool),
		Providers:  NewProviderRepository(pool),
		Products:   NewProductRepository(pool),
		Stock:      NewStockRepository(pool),
		Movements:  NewMovementRepository(pool),
		Sales:      NewSaleRepository(pool),
		Entries:    NewStockEntryRepository(pool),
		Exits:      NewStockExitRepository(pool),
		Tickets:    NewTicketRepository(pool),
		Analytics:  NewAnalyticsRepository(pool),
	}
}
