package inventory

import (
	"context"

	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Stock     repository.StockRepository
	Movements repository.MovementRepository
	Products  repository.ProductRepository
	Sales     repository.SaleRepository
	Entries   repository.StockEntryRepository
	Exits     repository.StockExitRepository
	Sequences repository.SequenceRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil; Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

// Metrics contadores de negocio del motor de inventario.
type Metrics interface {
	SaleRegistered(sedeID string)
	SaleVoided(sedeID string)
	StockEntryRegistered(sedeID string)
	StockExitRegistered(sedeID string)
	StockConflict(operation string)
}

type nopMetrics struct{}

func (nopMetrics) SaleRegistered(string)       {}
func (nopMetrics) SaleVoided(string)           {}
func (nopMetrics) StockEntryRegistered(string) {}
func (nopMetrics) StockExitRegistered(string)  {}
func (nopMetrics) StockConflict(string)        {}

func metricsOrNop(m Metrics) Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
