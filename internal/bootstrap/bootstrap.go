// Package bootstrap arma repositorios y casos de uso a partir de la configuración.
// Lo comparten el API y la CLI para que ambos operen sobre el mismo backend.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-sedes/internal/application/access"
	"github.com/jhoicas/inventario-sedes/internal/application/analytics"
	"github.com/jhoicas/inventario-sedes/internal/application/auth"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/application/usecase"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-sedes/pkg/config"
	"github.com/jhoicas/inventario-sedes/pkg/jwt"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

// Storage repositorios del backend elegido más su TxRunner.
type Storage struct {
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
	Tx         inventory.TxRunner

	close func()
}

// Close libera el pool de conexiones (no-op en memoria).
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage abre PostgreSQL o el almacén en memoria según STORAGE_DRIVER.
func OpenStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Storage, error) {
	switch cfg.Storage.Driver {
	case "memory":
		log.Warn().Msg("usando almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		r := store.Repos()
		return &Storage{
			Sedes: r.Sedes, Users: r.Users, Categories: r.Categories, Providers: r.Providers,
			Products: r.Products, Stock: r.Stock, Movements: r.Movements, Sales: r.Sales,
			Entries: r.Entries, Exits: r.Exits, Tickets: r.Tickets, Analytics: r.Analytics,
			Tx: memory.NewTxRunner(store),
		}, nil
	case "postgres", "":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		r := postgres.NewRepos(pool)
		return &Storage{
			Sedes: r.Sedes, Users: r.Users, Categories: r.Categories, Providers: r.Providers,
			Products: r.Products, Stock: r.Stock, Movements: r.Movements, Sales: r.Sales,
			Entries: r.Entries, Exits: r.Exits, Tickets: r.Tickets, Analytics: r.Analytics,
			Tx:    postgres.NewTxRunner(pool),
			close: pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER desconocido: %q", cfg.Storage.Driver)
	}
}

// Services casos de uso listos para el router o la CLI.
type Services struct {
	Guard         *access.Guard
	Auth          *auth.AuthUseCase
	Users         *usecase.UserUseCase
	Sedes         *usecase.SedeUseCase
	Categories    *usecase.CategoryUseCase
	Providers     *usecase.ProviderUseCase
	Products      *usecase.ProductUseCase
	Tickets       *usecase.TicketUseCase
	Stock         *inventory.StockUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Sales         *inventory.SaleUseCase
	Entries       *inventory.StockEntryUseCase
	Exits         *inventory.StockExitUseCase
	Dashboard     *analytics.DashboardUseCase
}

// NewServices construye los casos de uso. sessions y metrics pueden ser nil en la CLI.
func NewServices(st *Storage, issuer *jwt.Issuer, sessions auth.SessionStore, metrics inventory.Metrics) *Services {
	guard := access.NewGuard(st.Users, st.Sedes)
	return &Services{
		Guard:         guard,
		Auth:          auth.NewAuthUseCase(st.Users, st.Sedes, issuer, sessions),
		Users:         usecase.NewUserUseCase(st.Users, st.Sedes),
		Sedes:         usecase.NewSedeUseCase(st.Sedes),
		Categories:    usecase.NewCategoryUseCase(st.Categories),
		Providers:     usecase.NewProviderUseCase(st.Providers),
		Products:      usecase.NewProductUseCase(st.Products, st.Categories, st.Providers, st.Stock, st.Tx, guard),
		Tickets:       usecase.NewTicketUseCase(st.Tickets, st.Users, st.Sedes),
		Stock:         inventory.NewStockUseCase(st.Tx, st.Stock, st.Movements, st.Products, guard, metrics),
		Replenishment: inventory.NewReplenishmentUseCase(st.Stock, guard),
		Sales:         inventory.NewSaleUseCase(st.Tx, st.Sales, guard, metrics),
		Entries:       inventory.NewStockEntryUseCase(st.Tx, st.Entries, st.Providers, guard, metrics),
		Exits:         inventory.NewStockExitUseCase(st.Tx, st.Exits, guard, metrics),
		Dashboard:     analytics.NewDashboardUseCase(st.Analytics, guard),
	}
}
